package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addPowerUp(s *Sim, kind PowerUpKind, pos Vec3) *PowerUp {
	pu := &PowerUp{
		ID:        s.nextID(),
		Kind:      kind,
		Position:  pos,
		SpawnedAt: s.now,
		Lifetime:  PowerUpLifetime,
	}
	s.powerUps = append(s.powerUps, pu)
	return pu
}

func TestPowerUpKindNames(t *testing.T) {
	assert.Equal(t, "weapon", PowerUpWeapon.String())
	assert.Equal(t, "shield", PowerUpShield.String())
	assert.Equal(t, "rapidfire", PowerUpRapidFire.String())
	assert.Equal(t, "health", PowerUpHealth.String())
	assert.Equal(t, "unknown", PowerUpKind(9).String())
}

func TestSpawnPowerUpKindUniform(t *testing.T) {
	tests := []struct {
		r    float64
		kind PowerUpKind
	}{
		{0.0, PowerUpWeapon},
		{0.3, PowerUpShield},
		{0.6, PowerUpRapidFire},
		{0.99, PowerUpHealth},
	}
	for _, tc := range tests {
		s := New(DefaultConfig(), fixedRand{tc.r})
		pu := s.spawnPowerUp(Vec3{1, 2, 3})
		assert.Equal(t, tc.kind, pu.Kind)
		assert.Equal(t, Vec3{1, 2, 3}, pu.Position)
		assert.LessOrEqual(t, pu.Drift.Len(), PowerUpMaxDrift*2)
	}
}

func TestPowerUpDrifts(t *testing.T) {
	pu := &PowerUp{Drift: Vec3{0.01, 0, -0.01}}
	pu.Update()
	pu.Update()
	assert.InDelta(t, 0.02, pu.Position.X, 1e-9)
	assert.InDelta(t, -0.02, pu.Position.Z, 1e-9)
	assert.Greater(t, pu.ToView().Anim, 0.0)
}

func TestPowerUpExpiresWithoutEffect(t *testing.T) {
	s := newPlayingSim(t)
	s.player.Health = 50
	pu := addPowerUp(s, PowerUpHealth, Vec3{0, 0, 0.5})
	pu.SpawnedAt = s.now - PowerUpLifetime
	s.Step(Input{})
	assert.Empty(t, s.powerUps)
	assert.Equal(t, 50, s.Player().Health)
}

func TestHealthPickupClamped(t *testing.T) {
	s := newPlayingSim(t)
	s.player.Health = 90
	addPowerUp(s, PowerUpHealth, Vec3{0, 0, 1.2})
	f := s.Step(Input{})
	assert.Empty(t, s.powerUps)
	assert.Equal(t, PlayerMaxHealth, s.Player().Health)
	assert.Equal(t, 1, countEvents(f.Events, EventPowerUpCollected))
}

func TestPickupRadius(t *testing.T) {
	s := newPlayingSim(t)
	addPowerUp(s, PowerUpShield, Vec3{0, 0, 1.6})
	s.updatePowerUps()
	assert.Len(t, s.powerUps, 1)

	s.powerUps[0].Position = Vec3{0, 0, PlayerPickupRadius + PowerUpRadius}
	s.updatePowerUps()
	assert.Empty(t, s.powerUps, "touching spheres collect")
}

func TestCollectPowerUpEffects(t *testing.T) {
	s := newPlayingSim(t)

	s.collectPowerUp(PowerUpShield)
	assert.Equal(t, int64(ShieldDuration), s.EffectRemaining(EffectShield))

	s.collectPowerUp(PowerUpRapidFire)
	assert.Equal(t, int64(RapidFireDuration), s.EffectRemaining(EffectRapidFire))
	assert.Equal(t, int64(RapidFireCooldown), s.weapon.Cooldown(&s.effects))

	s.collectPowerUp(PowerUpWeapon)
	assert.Equal(t, 2, s.Weapon().Tier)
	assert.Equal(t, WeaponPlasma, s.Weapon().Kind)

	s.player.Health = 10
	s.collectPowerUp(PowerUpHealth)
	assert.Equal(t, 35, s.Player().Health)

	events := s.drainEvents()
	require.Len(t, events, 4)
	assert.Equal(t, PowerUpHealth, events[3].PowerUp)
}

func TestDestroyedHostileMayDropPowerUp(t *testing.T) {
	s := newPlayingSim(t)
	s.rng = fixedRand{0.1}
	addHostile(s, Vec3{20, 0, 0}, 1)
	addProjectile(s, Vec3{20, 0, 0}, 1)
	s.checkProjectileHits()
	require.Len(t, s.powerUps, 1)
	assert.Equal(t, Vec3{20, 0, 0}, s.powerUps[0].Position)
}
