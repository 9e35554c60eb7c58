package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/pravdin97/minesweeper/internal/commands"
	"github.com/pravdin97/minesweeper/internal/config"
	"github.com/pravdin97/minesweeper/internal/middleware"
	"github.com/pravdin97/minesweeper/internal/session"
)

const maxBatchBytes = 64 << 10

var ErrNotOwner = errors.New("only the player who started this game may play it")

type GameStore interface {
	Create(seed string) session.Snapshot
	Get(id string) (session.Snapshot, error)
	Apply(id string, cmds ...commands.Command) (session.Snapshot, error)
	Subscribe(ctx context.Context, id string) (<-chan session.Snapshot, func(), error)
}

type GameHandler struct {
	log     logrus.FieldLogger
	store   GameStore
	cookies *config.Cookies
	ws      *config.WebSocket
}

func NewGameHandler(
	log logrus.FieldLogger,
	store GameStore,
	cookies *config.Cookies,
	ws *config.WebSocket,
) *GameHandler {
	handler := &GameHandler{
		log:     log,
		store:   store,
		cookies: cookies,
		ws:      ws,
	}

	return handler
}

func isOwner(r *http.Request, id string) bool {
	claims, ok := middleware.GameClaims(r.Context())
	return ok && claims.GameID == id
}

// sendApplyError maps store errors to responses.
func (g GameHandler) sendApplyError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNotFound) {
		sendErrorOrLog(w, g.log, http.StatusNotFound, err)
		return
	}
	sendErrorOrLog(w, g.log, http.StatusBadRequest, err)
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateGameDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.log, http.StatusBadRequest, err)
		return
	}

	snap := g.store.Create(dto.Seed)

	if err := g.cookies.Grant(w, snap.ID); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to grant game ownership")
		return
	}

	sendJSONOrLog(w, g.log, http.StatusCreated, NewGameDTO(snap, true))
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap, err := g.store.Get(id)
	if err != nil {
		g.sendApplyError(w, err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, NewGameDTO(snap, isOwner(r, id)))
}

// apply runs cmds on behalf of the game's owner and writes the new state.
func (g GameHandler) apply(w http.ResponseWriter, r *http.Request, cmds ...commands.Command) {
	id := r.PathValue("id")
	if !isOwner(r, id) {
		sendErrorOrLog(w, g.log, http.StatusForbidden, ErrNotOwner)
		return
	}
	snap, err := g.store.Apply(id, cmds...)
	if err != nil {
		g.sendApplyError(w, err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, NewGameDTO(snap, true))
}

func (g GameHandler) positionCommand(kind commands.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, err := ParsePosition(r.URL.Query())
		if err != nil {
			sendErrorOrLog(w, g.log, http.StatusBadRequest, err)
			return
		}
		g.apply(w, r, commands.Command{Kind: kind, Position: pos})
	}
}

func (g GameHandler) Open(w http.ResponseWriter, r *http.Request) {
	g.positionCommand(commands.Open)(w, r)
}

func (g GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	g.positionCommand(commands.Flag)(w, r)
}

func (g GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	g.apply(w, r, commands.Command{Kind: commands.Restart})
}

// Batch applies one command per line of the request body, all or nothing.
func (g GameHandler) Batch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBatchBytes))
	if err != nil {
		sendErrorOrLog(w, g.log, http.StatusRequestEntityTooLarge, err)
		return
	}
	cmds, err := commands.ParseAll(string(body))
	if err != nil {
		sendErrorOrLog(w, g.log, http.StatusBadRequest, err)
		return
	}
	if len(cmds) == 0 {
		sendErrorOrLog(w, g.log, http.StatusBadRequest, fmt.Errorf("empty batch"))
		return
	}
	g.apply(w, r, cmds...)
}

// Board renders the player's view as text, handy for curl.
func (g GameHandler) Board(w http.ResponseWriter, r *http.Request) {
	snap, err := g.store.Get(r.PathValue("id"))
	if err != nil {
		g.sendApplyError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s %s\n", snap.Dims, snap.Status)
	fmt.Fprint(w, snap.Board.String())
}
