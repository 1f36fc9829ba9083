package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"starfighter/game"
)

const instrumentationName = "starfighter"

// Metrics holds the server instruments. They come from the global OTel
// meter provider, which is a no-op unless one is installed.
type Metrics struct {
	ticks             metric.Int64Counter
	kills             metric.Int64Counter
	runsFinished      metric.Int64Counter
	missionsCompleted metric.Int64Counter
	sessionsActive    metric.Int64UpDownCounter
}

// NewMetrics creates the instruments
func NewMetrics() (*Metrics, error) {
	m := otel.Meter(instrumentationName)
	var (
		mt  Metrics
		err error
	)

	mt.ticks, err = m.Int64Counter(
		"starfighter.ticks",
		metric.WithDescription("Simulation ticks run across all sessions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}

	mt.kills, err = m.Int64Counter(
		"starfighter.kills",
		metric.WithDescription("Hostiles destroyed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating kills counter: %w", err)
	}

	mt.runsFinished, err = m.Int64Counter(
		"starfighter.runs.finished",
		metric.WithDescription("Runs that ended in game over"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	mt.missionsCompleted, err = m.Int64Counter(
		"starfighter.missions.completed",
		metric.WithDescription("Missions completed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating missions counter: %w", err)
	}

	mt.sessionsActive, err = m.Int64UpDownCounter(
		"starfighter.sessions.active",
		metric.WithDescription("Live pilot sessions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions gauge: %w", err)
	}

	return &mt, nil
}

// ObserveFrame records one simulation frame
func (m *Metrics) ObserveFrame(ctx context.Context, f game.Frame) {
	if m == nil {
		return
	}
	m.ticks.Add(ctx, 1)
	if f.Kills > 0 {
		m.kills.Add(ctx, int64(f.Kills))
	}
	for _, e := range f.Events {
		switch e.Type {
		case game.EventMissionComplete:
			m.missionsCompleted.Add(ctx, 1)
		case game.EventGameOver:
			m.runsFinished.Add(ctx, 1)
		}
	}
}

// SessionOpened bumps the live session count
func (m *Metrics) SessionOpened(ctx context.Context) {
	if m == nil {
		return
	}
	m.sessionsActive.Add(ctx, 1)
}

// SessionClosed drops the live session count
func (m *Metrics) SessionClosed(ctx context.Context) {
	if m == nil {
		return
	}
	m.sessionsActive.Add(ctx, -1)
}
