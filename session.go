package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"starfighter/game"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many active sessions")
)

// Session is one pilot's hosted game
type Session struct {
	ID        string
	Pilot     string
	Game      *Game
	CreatedAt time.Time
}

// SessionManager handles creation, lookup and expiry of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	created  int64

	cfg     Config
	db      *DB
	metrics *Metrics
	log     zerolog.Logger
	ctx     context.Context
}

// NewSessionManager creates a SessionManager. Sessions are stopped when
// ctx is cancelled.
func NewSessionManager(ctx context.Context, cfg Config, db *DB, metrics *Metrics, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		db:       db,
		metrics:  metrics,
		log:      log.With().Str("component", "sessions").Logger(),
		ctx:      ctx,
	}
}

// CreateSession creates a session and starts its game loop
func (sm *SessionManager) CreateSession(pilot string) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= sm.cfg.MaxSessions {
		return nil, ErrTooManySessions
	}

	sm.created++
	seed := sm.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	} else {
		seed += sm.created
	}

	id := uuid.NewString()
	sess := &Session{
		ID:        id,
		Pilot:     pilot,
		CreatedAt: time.Now(),
	}
	sess.Game = NewGame(sm.ctx, pilot, GameOptions{
		Sim:            sm.cfg.Sim,
		Rand:           game.NewRand(seed),
		TickDuration:   sm.cfg.TickDuration(),
		BroadcastEvery: sm.cfg.BroadcastEvery,
		Metrics:        sm.metrics,
		Logger:         sm.log.With().Str("sid", id).Logger(),
		OnFinish: func(rec RunRecord) {
			sm.recordRun(sess, rec)
		},
	})
	sm.sessions[id] = sess
	go sess.Game.Run()

	sm.metrics.SessionOpened(sm.ctx)
	sm.log.Info().Str("sid", id).Str("pilot", pilot).Msg("session created")
	return sess, nil
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sess, ok := sm.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	return sess, nil
}

// RemoveSession stops and removes a session
func (sm *SessionManager) RemoveSession(id string) {
	sm.mu.Lock()
	sess, ok := sm.sessions[id]
	if ok {
		delete(sm.sessions, id)
	}
	sm.mu.Unlock()
	if !ok {
		return
	}
	sess.Game.Stop()
	sm.metrics.SessionClosed(sm.ctx)
	sm.log.Info().Str("sid", id).Msg("session removed")
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ReapIdle removes sessions that have had no client for longer than the
// idle timeout. Returns the number removed.
func (sm *SessionManager) ReapIdle(now time.Time) int {
	sm.mu.RLock()
	var idle []string
	for id, sess := range sm.sessions {
		if since, detached := sess.Game.DetachedSince(); detached && now.Sub(since) >= sm.cfg.SessionIdleTimeout {
			idle = append(idle, id)
		}
	}
	sm.mu.RUnlock()

	for _, id := range idle {
		sm.RemoveSession(id)
	}
	return len(idle)
}

// RunReaper calls ReapIdle periodically until ctx is done
func (sm *SessionManager) RunReaper(ctx context.Context) {
	interval := sm.cfg.SessionIdleTimeout / 2
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			if n := sm.ReapIdle(now); n > 0 {
				sm.log.Debug().Int("count", n).Msg("reaped idle sessions")
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close stops every session
func (sm *SessionManager) Close() {
	sm.mu.RLock()
	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	sm.mu.RUnlock()
	for _, id := range ids {
		sm.RemoveSession(id)
	}
}

// recordRun stores a finished run and reports it back to the pilot
func (sm *SessionManager) recordRun(sess *Session, rec RunRecord) {
	msg := RecordMsg{
		Score:   rec.Score,
		Kills:   rec.Kills,
		Mission: rec.Mission,
		Best:    rec.Score,
	}
	if sm.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := sm.db.RecordRun(ctx, rec); err != nil {
			sm.log.Error().Err(err).Str("sid", sess.ID).Msg("recording run")
		}
		if rank, err := sm.db.RankForScore(ctx, rec.Score); err == nil {
			msg.Rank = rank
		}
		if best, err := sm.db.PilotBest(ctx, rec.Pilot); err == nil && best > msg.Best {
			msg.Best = best
		}
	}
	sess.Game.Send(Envelope{T: MsgRecord, Data: msg})
}
