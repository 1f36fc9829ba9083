package main

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starfighter/game"
)

func testConfig() Config {
	return Config{
		TokenTTL:           time.Hour,
		MaxSessions:        2,
		SessionIdleTimeout: time.Minute,
		BroadcastEvery:     1,
		Seed:               7,
		Sim:                game.DefaultConfig(),
	}
}

func newTestSessions(t *testing.T, cfg Config, db *DB) *SessionManager {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	sm := NewSessionManager(ctx, cfg, db, nil, zerolog.Nop())
	t.Cleanup(func() {
		sm.Close()
		cancel()
	})
	return sm
}

func TestSessionLifecycle(t *testing.T) {
	sm := newTestSessions(t, testConfig(), nil)

	sess, err := sm.CreateSession("ace")
	require.NoError(t, err)
	assert.Equal(t, "ace", sess.Pilot)
	assert.Equal(t, 1, sm.Count())

	got, err := sm.GetSession(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	sm.RemoveSession(sess.ID)
	assert.Zero(t, sm.Count())
	select {
	case <-sess.Game.Done():
	case <-time.After(time.Second):
		t.Fatal("game loop still running after removal")
	}

	_, err = sm.GetSession(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// removing twice is harmless
	sm.RemoveSession(sess.ID)
}

func TestSessionLimit(t *testing.T) {
	sm := newTestSessions(t, testConfig(), nil)

	_, err := sm.CreateSession("a")
	require.NoError(t, err)
	_, err = sm.CreateSession("b")
	require.NoError(t, err)

	_, err = sm.CreateSession("c")
	assert.ErrorIs(t, err, ErrTooManySessions)
}

func TestReapIdle(t *testing.T) {
	sm := newTestSessions(t, testConfig(), nil)

	idle, err := sm.CreateSession("idle")
	require.NoError(t, err)
	busy, err := sm.CreateSession("busy")
	require.NoError(t, err)
	busy.Game.Attach(&fakeClient{})

	assert.Zero(t, sm.ReapIdle(time.Now()), "nothing has idled long enough")

	n := sm.ReapIdle(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 1, n)
	_, err = sm.GetSession(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = sm.GetSession(busy.ID)
	assert.NoError(t, err)
}

func TestRecordRunReportsRank(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := db.RecordRun(ctx, RunRecord{Pilot: "ace", Score: 2000, Mission: 5})
	require.NoError(t, err)
	_, err = db.RecordRun(ctx, RunRecord{Pilot: "bo", Score: 100, Mission: 1})
	require.NoError(t, err)

	sm := newTestSessions(t, testConfig(), db)
	sess, err := sm.CreateSession("ace")
	require.NoError(t, err)
	c := &fakeClient{}
	sess.Game.Attach(c)

	sm.recordRun(sess, RunRecord{Pilot: "ace", Score: 500, Kills: 5, Mission: 2})

	records := c.ofType(MsgRecord)
	require.Len(t, records, 1)
	msg := records[0].Data.(RecordMsg)
	assert.Equal(t, 500, msg.Score)
	assert.Equal(t, 2, msg.Rank)
	assert.Equal(t, 2000, msg.Best)

	best, err := db.PilotBest(ctx, "ace")
	require.NoError(t, err)
	assert.Equal(t, 2000, best)
	entries, err := db.Leaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRecordRunWithoutDatabase(t *testing.T) {
	sm := newTestSessions(t, testConfig(), nil)
	sess, err := sm.CreateSession("ace")
	require.NoError(t, err)
	c := &fakeClient{}
	sess.Game.Attach(c)

	sm.recordRun(sess, RunRecord{Pilot: "ace", Score: 300})

	records := c.ofType(MsgRecord)
	require.Len(t, records, 1)
	msg := records[0].Data.(RecordMsg)
	assert.Equal(t, 300, msg.Best)
	assert.Zero(t, msg.Rank)
}
