package game

import "math"

// Player kinematics, per tick
const (
	PlayerAccel       = 0.03
	PlayerBackwardMul = 0.5
	PlayerMaxSpeed    = 0.5
	PlayerFriction    = 0.92
	PlayerMaxHealth   = 100
	LookSensitivity   = 0.002
	PitchLimit        = math.Pi/2 - 0.1
)

// World bounds (half extents of the box centered on the origin)
const (
	WorldHalfX = 100.0
	WorldHalfY = 50.0
	WorldHalfZ = 100.0
)

// Collision radii
const (
	PlayerHitRadius    = 0.5 // vs hostiles
	PlayerPickupRadius = 1.0 // vs power-ups
	ProjectileRadius   = 0.1
	HostileRadius      = 1.5
	PowerUpRadius      = 0.5
)

// Projectiles. Durations are milliseconds of simulated time.
const (
	MuzzleOffset       = 0.5
	TripleShotSpread   = 0.3
	ProjectileLifetime = 2000
	ProjectileHorizon  = 150.0
	TrailInterval      = 50
	MaxProjectiles     = 256
	RapidFireCooldown  = 50
)

// Hostiles and mission scaling
const (
	HostileSpawnMinDist  = 40.0
	HostileSpawnMaxDist  = 70.0
	HostileMinSpeed      = 0.03
	HostileMaxSpeed      = 0.10
	HostilePointsPerHP   = 100
	HostileBehindDespawn = -50.0
	HostileCollisionDmg  = 10
	CollisionExplosion   = 0.15
	SpawnPowerUpChance   = 0.1
	DestroyPowerUpChance = 0.2
	BaseSpawnInterval    = 1200
	MinSpawnInterval     = 500
	SpawnIntervalStep    = 200
	SpeedMultiplierStep  = 0.2
	BaseMissionTarget    = 5
	MissionTargetStep    = 3
)

// Power-ups
const (
	PowerUpLifetime    = 10000
	PowerUpMaxDrift    = 0.01
	PowerUpHeal        = 25
	ShieldDuration     = 30000
	RapidFireDuration  = 20000
	TripleShotDuration = 15000
)

const (
	animPulseStep  = 0.1
	animSpiralStep = 0.2
)

// Config holds the per-simulation tunables that callers may override.
type Config struct {
	// FrameDelta is the assumed duration of one tick in milliseconds. Every
	// timer in the simulation advances by this amount per Step.
	FrameDelta int64
	// GridCellSize is the broad-phase cell edge for projectile/hostile tests.
	GridCellSize float64
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		FrameDelta:   16,
		GridCellSize: 4,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.FrameDelta <= 0 {
		c.FrameDelta = d.FrameDelta
	}
	if c.GridCellSize <= 0 {
		c.GridCellSize = d.GridCellSize
	}
	return c
}
