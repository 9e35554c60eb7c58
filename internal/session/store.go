package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pravdin97/minesweeper/internal/commands"
	"github.com/pravdin97/minesweeper/internal/mines"
)

var ErrNotFound = errors.New("game not found")

// Snapshot is an immutable copy of a game taken between two intents.
type Snapshot struct {
	ID        string
	Seed      string
	Round     int
	Version   uint64
	Dims      mines.Dims
	Status    mines.Status
	Board     mines.Board
	MineCount int
	Revealed  int
	Flags     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type session struct {
	mu        sync.Mutex
	id        string
	seed      string
	round     int
	version   uint64
	game      *mines.Game
	createdAt time.Time
	updatedAt time.Time
}

// snapshot must be called with s.mu held.
func (s *session) snapshot() Snapshot {
	return Snapshot{
		ID:        s.id,
		Seed:      s.seed,
		Round:     s.round,
		Version:   s.version,
		Dims:      s.game.Dims(),
		Status:    s.game.Status(),
		Board:     s.game.Board(),
		MineCount: s.game.Layout().MineCount(),
		Revealed:  s.game.Revealed(),
		Flags:     s.game.Flags(),
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
}

// nextRound replaces the game with one generated from seed. Every round has
// its own generator, so the seed of one round tells nothing about the next.
func (s *session) nextRound(seed string) {
	s.round++
	s.seed = seed
	s.game = mines.NewGame(s.game.Dims(), mines.RandFromSeed(seed))
}

type subscriber struct {
	ch        chan Snapshot
	done      chan struct{}
	closeOnce sync.Once
}

func (s *subscriber) close() {
	s.closeOnce.Do(func() {
		close(s.ch)
		close(s.done)
	})
}

// Store keeps games in memory. Intents on one game never interleave; intents
// on different games run independently.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	subs     map[string]map[*subscriber]struct{}
	dims     mines.Dims
	log      *logrus.Logger
	now      func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewStore(log *logrus.Logger, dims mines.Dims, rnd *rand.Rand) *Store {
	return &Store{
		sessions: make(map[string]*session),
		subs:     make(map[string]map[*subscriber]struct{}),
		dims:     dims,
		rnd:      rnd,
		log:      log,
		now:      time.Now,
	}
}

func (s *Store) newSeed() string {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return mines.NewSeed(s.rnd)
}

// Create starts a new game. An empty seed picks a fresh one. The seed fixes
// the first layout only; every restart draws a new seed.
func (s *Store) Create(seed string) Snapshot {
	if seed == "" {
		seed = s.newSeed()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &session{
		id:        uuid.NewString(),
		seed:      seed,
		game:      mines.NewGame(s.dims, mines.RandFromSeed(seed)),
		createdAt: now,
		updatedAt: now,
	}
	s.sessions[sess.id] = sess

	s.log.WithFields(logrus.Fields{
		"id":   sess.id,
		"seed": seed,
		"dims": s.dims.String(),
	}).Info("game created")

	return sess.snapshot()
}

func (s *Store) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Store) Get(id string) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// Apply runs cmds against a game in order and returns the resulting state.
// Either every command is valid and all are applied, or none is.
func (s *Store) Apply(id string, cmds ...commands.Command) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	for _, c := range cmds {
		if err := c.Validate(sess.game.Dims()); err != nil {
			sess.mu.Unlock()
			return Snapshot{}, err
		}
	}
	changed := false
	for _, c := range cmds {
		if c.Kind == commands.Restart {
			sess.nextRound(s.newSeed())
		} else if err := commands.Execute(sess.game, c); err != nil {
			sess.mu.Unlock()
			return Snapshot{}, err
		}
		changed = changed || c.Kind != commands.Get
	}
	if changed {
		sess.version++
		sess.updatedAt = s.now()
	}
	snap := sess.snapshot()
	sess.mu.Unlock()

	if changed {
		s.log.WithFields(logrus.Fields{
			"id":       id,
			"commands": len(cmds),
			"round":    snap.Round,
			"status":   snap.Status.String(),
		}).Debug("game updated")
		s.broadcast(id, snap)
	}
	return snap, nil
}

// Subscribe returns a channel receiving a snapshot after every change to
// the game. Snapshots of concurrent changes may arrive out of order; compare
// Version to discard stale ones. The channel is closed when ctx is done, when the returned
// function is called, when the game is removed, or when the subscriber falls
// behind.
func (s *Store) Subscribe(ctx context.Context, id string) (<-chan Snapshot, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return nil, nil, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan Snapshot, 1), done: make(chan struct{})}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			unsub()
		case <-sub.done:
		}
	}()
	return sub.ch, unsub, nil
}

func (s *Store) broadcast(id string, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs[id] {
		select {
		case sub.ch <- snap:
		default:
			// drop slow subscriber
			delete(s.subs[id], sub)
			sub.close()
		}
	}
}

// Prune removes games untouched for longer than ttl and returns how many
// were removed.
func (s *Store) Prune(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	n := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		stale := sess.updatedAt.Before(cutoff)
		sess.mu.Unlock()
		if !stale {
			continue
		}
		delete(s.sessions, id)
		for sub := range s.subs[id] {
			sub.close()
		}
		delete(s.subs, id)
		n++
	}
	if n > 0 {
		s.log.WithField("removed", n).Info("pruned idle games")
	}
	return n
}

// Len is the number of games in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
