// Package game is the real-time simulation core: player kinematics, the
// weapon state machine, projectile/hostile/power-up pools, timed effects,
// collision resolution and mission progression.
//
// A Sim is single-threaded. The host calls Step once per frame and hands
// the returned events and the Snapshot to its renderer.
package game

// EntityType tags a renderer view
type EntityType uint8

const (
	EntityProjectile EntityType = iota
	EntityHostile
	EntityPowerUp
)

// EntityView is what the renderer needs to place one live entity. Variant
// is the weapon kind, hostile class or power-up kind. Anim is an opaque
// cosmetic phase.
type EntityView struct {
	ID       uint32
	Type     EntityType
	Variant  uint8
	Position Vec3
	Facing   Orientation
	Anim     float64
}

// HUD holds the scalars re-exposed to the UI every tick
type HUD struct {
	Phase          Phase
	Score          int
	Kills          int
	Health         int
	Speed          float64
	Altitude       float64
	Hostiles       int
	Projectiles    int
	PowerUps       int
	Weapon         WeaponKind
	WeaponTier     int
	Mission        int
	Progress       int
	Target         int
	ShieldSecs     int
	RapidFireSecs  int
	TripleShotSecs int
}

// Frame is the result of one Step
type Frame struct {
	Tick   uint64
	Phase  Phase
	Events []Event
	HUD    HUD
	// Kills is the number of hostiles destroyed during this tick
	Kills int
}

// Snapshot is the full renderable state
type Snapshot struct {
	Tick        uint64
	Player      Pose
	Projectiles []EntityView
	Hostiles    []EntityView
	PowerUps    []EntityView
	HUD         HUD
}

// Pose is the player's camera transform
type Pose struct {
	Position Vec3
	Facing   Orientation
}

// Sim owns all simulation state for one pilot
type Sim struct {
	cfg Config
	rng Rand

	phase   Phase
	tick    uint64
	now     int64 // simulated ms
	player  *Player
	weapon  Weapon
	effects EffectLedger
	mission Mission
	score   int
	kills   int

	projectiles []*Projectile
	hostiles    []*Hostile
	powerUps    []*PowerUp

	lastSpawn   int64
	spawnedOnce bool
	lastID      uint32

	grid       *SpatialGrid
	candidates []int
	events     []Event

	transitioned bool
	tickKills    int
}

// New creates a simulation in the menu phase. A nil rng falls back to the
// global math/rand source.
func New(cfg Config, rng Rand) *Sim {
	cfg = cfg.normalized()
	s := &Sim{
		cfg:    cfg,
		rng:    rng,
		player: NewPlayer(),
		grid:   NewSpatialGrid(cfg.GridCellSize),
	}
	s.reset()
	return s
}

// reset returns every piece of run state to its initial value
func (s *Sim) reset() {
	s.player.Reset()
	s.weapon = NewWeapon()
	s.effects.Clear()
	s.mission = NewMission(1)
	s.score = 0
	s.kills = 0
	clear(s.projectiles)
	s.projectiles = s.projectiles[:0]
	clear(s.hostiles)
	s.hostiles = s.hostiles[:0]
	clear(s.powerUps)
	s.powerUps = s.powerUps[:0]
	s.spawnedOnce = false
	s.lastSpawn = 0
}

func (s *Sim) nextID() uint32 {
	s.lastID++
	return s.lastID
}

// Step advances the simulation by one tick. Outside the playing phase it
// only flushes pending events.
func (s *Sim) Step(in Input) Frame {
	if s.phase != PhasePlaying {
		return Frame{Tick: s.tick, Phase: s.phase, Events: s.drainEvents(), HUD: s.HUD()}
	}

	s.tick++
	s.now += s.cfg.FrameDelta
	s.transitioned = false
	s.tickKills = 0

	s.player.Update(in)
	if in.Fire {
		s.fire()
	}
	s.updateProjectiles()
	s.spawnHostiles()
	s.updateHostiles()
	s.updatePowerUps()
	for _, kind := range s.effects.Tick(s.cfg.FrameDelta) {
		s.emit(Event{Type: EventEffectExpired, Effect: kind})
	}
	s.checkCollisions()

	// End-of-tick evaluation; both transitions normally fire inline.
	if s.player.Health <= 0 {
		s.gameOver()
	} else if s.mission.Progress >= s.mission.Target {
		s.completeMission()
	}

	return Frame{
		Tick:   s.tick,
		Phase:  s.phase,
		Events: s.drainEvents(),
		HUD:    s.HUD(),
		Kills:  s.tickKills,
	}
}

// GrantEffect starts a timed effect directly
func (s *Sim) GrantEffect(kind EffectKind, ms int64) {
	s.effects.Set(kind, ms)
}

// HUD computes the UI scalars
func (s *Sim) HUD() HUD {
	return HUD{
		Phase:          s.phase,
		Score:          s.score,
		Kills:          s.kills,
		Health:         s.player.Health,
		Speed:          s.player.Speed(),
		Altitude:       s.player.Altitude(),
		Hostiles:       len(s.hostiles),
		Projectiles:    len(s.projectiles),
		PowerUps:       len(s.powerUps),
		Weapon:         s.weapon.Kind,
		WeaponTier:     s.weapon.Tier,
		Mission:        s.mission.Index,
		Progress:       s.mission.Progress,
		Target:         s.mission.Target,
		ShieldSecs:     s.effects.RemainingSeconds(EffectShield),
		RapidFireSecs:  s.effects.RemainingSeconds(EffectRapidFire),
		TripleShotSecs: s.effects.RemainingSeconds(EffectTripleShot),
	}
}

// Snapshot returns the renderable state
func (s *Sim) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:        s.tick,
		Player:      Pose{Position: s.player.Position, Facing: s.player.Facing},
		Projectiles: make([]EntityView, 0, len(s.projectiles)),
		Hostiles:    make([]EntityView, 0, len(s.hostiles)),
		PowerUps:    make([]EntityView, 0, len(s.powerUps)),
		HUD:         s.HUD(),
	}
	for _, p := range s.projectiles {
		snap.Projectiles = append(snap.Projectiles, p.ToView())
	}
	for _, h := range s.hostiles {
		snap.Hostiles = append(snap.Hostiles, h.ToView())
	}
	for _, pu := range s.powerUps {
		snap.PowerUps = append(snap.PowerUps, pu.ToView())
	}
	return snap
}

// Phase returns the current game state
func (s *Sim) Phase() Phase { return s.phase }

// Tick returns the number of simulated ticks
func (s *Sim) Tick() uint64 { return s.tick }

// Now returns the simulated clock in ms
func (s *Sim) Now() int64 { return s.now }

// Score returns the cumulative score
func (s *Sim) Score() int { return s.score }

// Kills returns the cumulative kill count
func (s *Sim) Kills() int { return s.kills }

// Mission returns the current mission state
func (s *Sim) Mission() Mission { return s.mission }

// Weapon returns a copy of the weapon state
func (s *Sim) Weapon() Weapon { return s.weapon }

// Player returns a copy of the player state
func (s *Sim) Player() Player { return *s.player }

// EffectRemaining returns the remaining ms of a timed effect
func (s *Sim) EffectRemaining(kind EffectKind) int64 {
	return s.effects.Remaining(kind)
}
