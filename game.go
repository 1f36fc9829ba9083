package main

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"starfighter/game"
)

// Broadcaster sends messages to the pilot's connection
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// GameOptions configures a hosted simulation
type GameOptions struct {
	Sim            game.Config
	Rand           game.Rand
	TickDuration   time.Duration
	BroadcastEvery int
	Metrics        *Metrics
	Logger         zerolog.Logger
	// OnFinish is called in its own goroutine when a run ends in game over
	OnFinish func(RunRecord)
}

// Game hosts one pilot's simulation and drives it from a ticker
type Game struct {
	mu     sync.Mutex
	sim    *game.Sim
	input  game.Input
	client Broadcaster
	pilot  string

	tickDuration   time.Duration
	broadcastEvery uint64
	lastPhase      game.Phase
	runStart       int64 // sim ms
	detachedAt     time.Time

	onFinish func(RunRecord)
	metrics  *Metrics
	log      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewGame creates a hosted simulation in the menu phase. The loop stops
// when ctx is cancelled or Stop is called.
func NewGame(ctx context.Context, pilot string, opts GameOptions) *Game {
	if opts.TickDuration <= 0 {
		opts.TickDuration = time.Duration(game.DefaultConfig().FrameDelta) * time.Millisecond
	}
	if opts.BroadcastEvery < 1 {
		opts.BroadcastEvery = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	sim := game.New(opts.Sim, opts.Rand)
	return &Game{
		sim:            sim,
		pilot:          pilot,
		tickDuration:   opts.TickDuration,
		broadcastEvery: uint64(opts.BroadcastEvery),
		lastPhase:      sim.Phase(),
		detachedAt:     time.Now(),
		onFinish:       opts.OnFinish,
		metrics:        opts.Metrics,
		log:            opts.Logger,
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
	}
}

// Run starts the game loop and blocks until the game is stopped
func (g *Game) Run() {
	defer close(g.done)

	ticker := time.NewTicker(g.tickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.ctx.Done():
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.cancel()
}

// Done is closed once Run has returned
func (g *Game) Done() <-chan struct{} {
	return g.done
}

// Pilot returns the pilot name
func (g *Game) Pilot() string {
	return g.pilot
}

// Attach routes output to client and sends it the current phase
func (g *Game) Attach(client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.client = client
	g.detachedAt = time.Time{}
	client.SendJSON(Envelope{T: MsgPhase, Data: g.phaseMsg()})
}

// Detach drops the client. The simulation keeps ticking with zero input.
func (g *Game) Detach(client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != client {
		return
	}
	g.client = nil
	g.input = game.Input{}
	g.detachedAt = time.Now()
}

// DetachedSince returns when the last client left, or false if one is
// attached
func (g *Game) DetachedSince() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return time.Time{}, false
	}
	return g.detachedAt, true
}

// HandleInput records the latest intent sample. Look deltas accumulate
// until the next tick consumes them.
func (g *Game) HandleInput(ci ClientInput) {
	g.mu.Lock()
	defer g.mu.Unlock()
	in := ci.ToInput()
	in.LookX += g.input.LookX
	in.LookY += g.input.LookY
	g.input = in
}

// StartRun leaves the menu
func (g *Game) StartRun() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.sim.Start(); err != nil {
		return err
	}
	g.runStart = g.sim.Now()
	g.log.Info().Str("pilot", g.pilot).Msg("run started")
	return nil
}

// Upgrade applies a mission reward and starts the next mission
func (g *Game) Upgrade(choice game.UpgradeChoice) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.sim.ChooseUpgrade(choice); err != nil {
		return err
	}
	g.log.Info().
		Str("pilot", g.pilot).
		Int("mission", g.sim.Mission().Index).
		Msg("mission started")
	return nil
}

// RestartRun starts over after a game over
func (g *Game) RestartRun() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.sim.Restart(); err != nil {
		return err
	}
	g.runStart = g.sim.Now()
	g.log.Info().Str("pilot", g.pilot).Msg("run restarted")
	return nil
}

// Phase returns the simulation phase
func (g *Game) Phase() game.Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sim.Phase()
}

// Snapshot returns the current renderable state
func (g *Game) Snapshot() game.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sim.Snapshot()
}

// update runs one game tick
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	in := g.input
	g.input.LookX, g.input.LookY = 0, 0

	before := g.sim.Tick()
	frame := g.sim.Step(in)
	stepped := g.sim.Tick() != before
	if stepped {
		g.metrics.ObserveFrame(g.ctx, frame)
	}

	if len(frame.Events) > 0 && g.client != nil {
		g.client.SendJSON(Envelope{T: MsgEvents, Data: NewEventMsgs(frame.Events)})
	}

	if frame.Phase != g.lastPhase {
		g.lastPhase = frame.Phase
		g.onPhaseChange(frame)
	}

	if stepped && frame.Tick%g.broadcastEvery == 0 {
		g.broadcastState()
	}
}

func (g *Game) onPhaseChange(frame game.Frame) {
	if g.client != nil {
		g.client.SendJSON(Envelope{T: MsgPhase, Data: g.phaseMsg()})
	}

	switch frame.Phase {
	case game.PhaseMissionComplete:
		g.log.Info().
			Str("pilot", g.pilot).
			Int("mission", frame.HUD.Mission).
			Int("score", frame.HUD.Score).
			Msg("mission complete")
	case game.PhaseGameOver:
		rec := RunRecord{
			Pilot:      g.pilot,
			Score:      frame.HUD.Score,
			Kills:      frame.HUD.Kills,
			Mission:    frame.HUD.Mission,
			WeaponTier: frame.HUD.WeaponTier,
			Duration:   time.Duration(g.sim.Now()-g.runStart) * time.Millisecond,
		}
		g.log.Info().
			Str("pilot", g.pilot).
			Int("score", rec.Score).
			Int("kills", rec.Kills).
			Int("mission", rec.Mission).
			Dur("duration", rec.Duration).
			Msg("game over")
		if g.onFinish != nil {
			go g.onFinish(rec)
		}
	}
}

func (g *Game) phaseMsg() PhaseMsg {
	hud := g.sim.HUD()
	return PhaseMsg{
		Phase:   hud.Phase.String(),
		Mission: hud.Mission,
		Target:  hud.Target,
		Score:   hud.Score,
	}
}

// broadcastState sends the msgpack state frame to the attached client
func (g *Game) broadcastState() {
	if g.client == nil {
		return
	}
	data, err := msgpack.Marshal(NewStateFrame(g.sim.Snapshot()))
	if err != nil {
		g.log.Error().Err(err).Msg("encoding state frame")
		return
	}
	g.client.SendBinary(data)
}

// Send delivers a message to the attached client, if any
func (g *Game) Send(msg Envelope) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		g.client.SendJSON(msg)
	}
}
