package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/pravdin97/minesweeper/internal/commands"
	"github.com/pravdin97/minesweeper/internal/session"
)

type wsMessage struct {
	Type  string   `json:"type"`
	Game  *GameDTO `json:"game,omitempty"`
	Error string   `json:"error,omitempty"`
}

func stateMessage(s session.Snapshot, owner bool) wsMessage {
	return wsMessage{Type: "state", Game: NewGameDTO(s, owner)}
}

func errorMessage(err error) wsMessage {
	return wsMessage{Type: "error", Error: err.Error()}
}

// ConnectWS streams the game to the client. Every client receives the state
// after each change; only the owner may send commands, one per line.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// subscribe before the first snapshot so no change falls in between
	updates, unsub, err := g.store.Subscribe(ctx, id)
	if err != nil {
		g.sendApplyError(w, err)
		return
	}
	defer unsub()

	owner := isOwner(r, id)
	log := g.log.WithFields(logrus.Fields{"id": id, "owner": owner})

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("upgrade")
		return
	}
	defer c.Close()
	c.SetReadLimit(g.ws.MaxMessage)

	snap, err := g.store.Get(id)
	if err != nil {
		log.WithError(err).Debug("game gone")
		return
	}

	replies := make(chan wsMessage, 4)
	done := make(chan struct{})

	// the writer owns all writes to c
	go func() {
		defer close(done)
		defer c.Close()

		write := func(m wsMessage) bool {
			c.SetWriteDeadline(time.Now().Add(g.ws.WriteTimeout))
			if err := c.WriteJSON(m); err != nil {
				log.WithError(err).Debug("write")
				return false
			}
			return true
		}

		last := snap.Version
		if !write(stateMessage(snap, owner)) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-updates:
				if !ok {
					return
				}
				if s.Version <= last {
					continue
				}
				last = s.Version
				if !write(stateMessage(s, owner)) {
					return
				}
			case m := <-replies:
				if !write(m) {
					return
				}
			}
		}
	}()

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway,
			) {
				log.WithError(err).Debug("read")
			}
			break
		}
		if mt != websocket.TextMessage {
			continue
		}
		reply, ok := g.handleWSCommands(id, owner, string(message))
		if !ok {
			continue
		}
		select {
		case replies <- reply:
		case <-done:
		}
	}

	cancel()
	<-done
}

// handleWSCommands applies a message from the client. Changes reach the
// client through its subscription, so a reply is only produced for errors
// and for messages that change nothing.
func (g GameHandler) handleWSCommands(id string, owner bool, text string) (wsMessage, bool) {
	cmds, err := commands.ParseAll(text)
	if err != nil {
		return errorMessage(err), true
	}
	readOnly := true
	for _, c := range cmds {
		if c.Kind != commands.Get {
			readOnly = false
		}
	}
	if !readOnly && !owner {
		return errorMessage(ErrNotOwner), true
	}
	snap, err := g.store.Apply(id, cmds...)
	if err != nil {
		return errorMessage(err), true
	}
	if readOnly {
		return stateMessage(snap, owner), true
	}
	return wsMessage{}, false
}
