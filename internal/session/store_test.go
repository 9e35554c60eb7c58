package session

import (
	"context"
	"io"
	"math/rand/v2"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pravdin97/minesweeper/internal/commands"
	"github.com/pravdin97/minesweeper/internal/mines"
)

var dims = mines.Dims{Rows: 9, Cols: 8}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewStore(log, dims, rand.New(rand.NewPCG(1, 2)))
}

func open(row, col int) commands.Command {
	return commands.Command{Kind: commands.Open, Position: mines.Position{Row: row, Col: col}}
}

func flag(row, col int) commands.Command {
	return commands.Command{Kind: commands.Flag, Position: mines.Position{Row: row, Col: col}}
}

// safeCell finds a non-mine cell of the game's current layout by replaying
// its seed.
func safeCell(t *testing.T, seed string) mines.Position {
	t.Helper()
	g := mines.NewGame(dims, mines.RandFromSeed(seed))
	for _, p := range dims.All() {
		if !g.Value(p).IsMine() {
			return p
		}
	}
	t.Fatal("no safe cell")
	return mines.Position{}
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	snap := s.Create("")

	assert.NotEmpty(t, snap.ID)
	assert.NotEmpty(t, snap.Seed)
	assert.Equal(t, dims, snap.Dims)
	assert.Equal(t, mines.MineCount(dims), snap.MineCount)
	assert.False(t, snap.Status.Lost())
	assert.False(t, snap.CreatedAt.IsZero())

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
	assert.Equal(t, 1, s.Len())
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Apply("nope", open(0, 0))
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = s.Subscribe(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeededGamesShareLayouts(t *testing.T) {
	s := newTestStore(t)
	a := s.Create("kotamiburo")
	b := s.Create("kotamiburo")

	p := safeCell(t, "kotamiburo")
	sa, err := s.Apply(a.ID, open(p.Row, p.Col))
	require.NoError(t, err)
	sb, err := s.Apply(b.ID, open(p.Row, p.Col))
	require.NoError(t, err)

	assert.Equal(t, sa.Board, sb.Board)
	assert.NotEqual(t, sa.ID, sb.ID)
}

func TestApply(t *testing.T) {
	s := newTestStore(t)
	snap := s.Create("")
	p := safeCell(t, snap.Seed)

	got, err := s.Apply(snap.ID, open(p.Row, p.Col))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Version)
	assert.GreaterOrEqual(t, got.Revealed, 1)
	assert.True(t, got.Board.At(p).Open())

	got, err = s.Apply(snap.ID, commands.Command{Kind: commands.Get})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Version, "get does not change the game")
}

func TestApplyIsAllOrNothing(t *testing.T) {
	s := newTestStore(t)
	snap := s.Create("")

	_, err := s.Apply(snap.ID, flag(0, 0), open(9, 0))
	assert.ErrorIs(t, err, commands.ErrOutOfGrid)

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Flags)
	assert.Equal(t, uint64(0), got.Version)
}

func TestApplyRejectsUnknownKind(t *testing.T) {
	s := newTestStore(t)
	snap := s.Create("")
	p := safeCell(t, snap.Seed)

	_, err := s.Apply(snap.ID, open(p.Row, p.Col), commands.Command{})
	assert.ErrorIs(t, err, commands.ErrUnknownCommand)

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Revealed)
	assert.Equal(t, uint64(0), got.Version)
}

func TestRestartDrawsNewSeed(t *testing.T) {
	s := newTestStore(t)
	snap := s.Create("kotamiburo")
	assert.Equal(t, 0, snap.Round)

	mine := mines.NewGame(dims, mines.RandFromSeed("kotamiburo")).Layout().Mines()[0]
	lost, err := s.Apply(snap.ID, open(mine.Row, mine.Col))
	require.NoError(t, err)
	require.True(t, lost.Status.Lost())
	assert.Equal(t, "kotamiburo", lost.Seed)

	next, err := s.Apply(snap.ID, commands.Command{Kind: commands.Restart})
	require.NoError(t, err)
	assert.Equal(t, 1, next.Round)
	assert.NotEqual(t, lost.Seed, next.Seed)

	current := s.sessions[snap.ID].game.Layout().Mines()

	// the lost round's seed, drawn from again, does not lead to the new layout
	replay := mines.NewGame(dims, mines.RandFromSeed(lost.Seed))
	replay.Start()
	assert.NotEqual(t, replay.Layout().Mines(), current)

	assert.Equal(t, mines.NewGame(dims, mines.RandFromSeed(next.Seed)).Layout().Mines(), current)
}

func TestRestart(t *testing.T) {
	s := newTestStore(t)
	snap := s.Create("")

	_, err := s.Apply(snap.ID, flag(0, 0), flag(1, 1))
	require.NoError(t, err)

	got, err := s.Apply(snap.ID, commands.Command{Kind: commands.Restart})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Flags)
	assert.Equal(t, 0, got.Revealed)
	assert.Equal(t, snap.ID, got.ID)
}

func TestSubscribe(t *testing.T) {
	s := newTestStore(t)
	snap := s.Create("")

	ctx, cancel := context.WithCancel(context.Background())
	ch, unsub, err := s.Subscribe(ctx, snap.ID)
	require.NoError(t, err)
	defer unsub()

	_, err = s.Apply(snap.ID, flag(2, 2))
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, 1, got.Flags)
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
	}

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should be closed after cancel")
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestUnsubscribeStopsWatcher(t *testing.T) {
	s := newTestStore(t)
	snap := s.Create("")

	before := runtime.NumGoroutine()
	for range 20 {
		_, unsub, err := s.Subscribe(context.Background(), snap.ID)
		require.NoError(t, err)
		unsub()
	}
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, s.subs[snap.ID])
}

func TestSlowSubscriberDropped(t *testing.T) {
	s := newTestStore(t)
	snap := s.Create("")

	ch, unsub, err := s.Subscribe(context.Background(), snap.ID)
	require.NoError(t, err)
	defer unsub()

	// buffer holds one snapshot, the second send drops the subscriber
	_, err = s.Apply(snap.ID, flag(0, 0))
	require.NoError(t, err)
	_, err = s.Apply(snap.ID, flag(0, 1))
	require.NoError(t, err)

	<-ch
	_, ok := <-ch
	assert.False(t, ok)
}

func TestConcurrentIntents(t *testing.T) {
	s := newTestStore(t)
	snap := s.Create("")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Apply(snap.ID, flag(i%dims.Rows, 0))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), got.Version)
}

func TestPrune(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	old := s.Create("")
	ch, _, err := s.Subscribe(context.Background(), old.ID)
	require.NoError(t, err)

	now = now.Add(time.Hour)
	fresh := s.Create("")

	assert.Equal(t, 1, s.Prune(30*time.Minute))
	_, err = s.Get(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(fresh.ID)
	assert.NoError(t, err)

	_, ok := <-ch
	assert.False(t, ok, "subscribers of pruned games are closed")
}
