package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjectile(t *testing.T) {
	p := NewPlayer()
	p.Position = Vec3{1, 2, 3}
	w := NewWeapon()
	w.Upgrade() // plasma

	proj := NewProjectile(7, p, &w, 0, 500)
	assert.Equal(t, uint32(7), proj.ID)
	assert.Equal(t, WeaponPlasma, proj.Kind)
	assert.InDelta(t, 3-MuzzleOffset, proj.Position.Z, 1e-9)
	assert.InDelta(t, -GetWeaponDef(WeaponPlasma).Speed, proj.Velocity.Z, 1e-9)
	assert.Equal(t, 3, proj.Damage)
	assert.Equal(t, int64(500), proj.SpawnedAt)
	assert.Equal(t, int64(ProjectileLifetime), proj.Lifetime)
}

func TestProjectileDamageFixedAtSpawn(t *testing.T) {
	s := newPlayingSim(t)
	s.Step(Input{Fire: true})
	require.Len(t, s.projectiles, 1)
	proj := s.projectiles[0]
	require.Equal(t, 1, proj.Damage)

	s.weapon.Upgrade() // plasma, damage 3
	h := addHostile(s, proj.Position, 3)
	s.checkProjectileHits()

	assert.Equal(t, 2, h.Health)
	assert.Empty(t, s.projectiles)
	assert.Contains(t, s.hostiles, h)
}

func TestProjectileMoves(t *testing.T) {
	p := &Projectile{Kind: WeaponBasic, Velocity: Vec3{0, 0, -1.5}}
	p.Update(16)
	p.Update(32)
	assert.InDelta(t, -3.0, p.Position.Z, 1e-9)
}

func TestProjectileExpiresByAge(t *testing.T) {
	p := &Projectile{SpawnedAt: 1000, Lifetime: ProjectileLifetime}
	assert.False(t, p.Expired(3000, Vec3{}), "age equal to lifetime is still live")
	assert.True(t, p.Expired(3001, Vec3{}))
}

func TestProjectileExpiresByHorizon(t *testing.T) {
	p := &Projectile{Position: Vec3{0, 0, -150}, Lifetime: ProjectileLifetime}
	assert.False(t, p.Expired(0, Vec3{}))
	p.Position.Z = -150.5
	assert.True(t, p.Expired(0, Vec3{}))
	assert.False(t, p.Expired(0, Vec3{0, 0, -10}), "horizon follows the player")
}

func TestProjectilePoolDropsExpired(t *testing.T) {
	s := newPlayingSim(t)
	s.Step(Input{Fire: true})
	require.Len(t, s.projectiles, 1)
	// 2000ms lifetime is 125 ticks; basic rounds leave the horizon first
	for i := 0; i < 110; i++ {
		s.Step(Input{})
	}
	assert.Empty(t, s.projectiles)
}

func TestTrailEvents(t *testing.T) {
	s := newPlayingSim(t)
	s.weapon.Upgrade()
	s.weapon.Upgrade()
	s.weapon.Upgrade() // tier 4, laser
	require.Equal(t, WeaponLaser, s.weapon.Kind)

	trails := 0
	f := s.Step(Input{Fire: true})
	trails += countEvents(f.Events, EventTrail)
	for i := 0; i < 3; i++ {
		f = s.Step(Input{})
		trails += countEvents(f.Events, EventTrail)
	}
	assert.Zero(t, trails)

	f = s.Step(Input{})
	require.Equal(t, 1, countEvents(f.Events, EventTrail))
	for _, e := range f.Events {
		if e.Type == EventTrail {
			assert.Equal(t, WeaponLaser, e.Weapon)
		}
	}
}

func TestBasicHasNoTrail(t *testing.T) {
	s := newPlayingSim(t)
	s.Step(Input{Fire: true})
	for i := 0; i < 20; i++ {
		f := s.Step(Input{})
		assert.Zero(t, countEvents(f.Events, EventTrail))
	}
}

func TestProjectileAnimation(t *testing.T) {
	p := &Projectile{Kind: WeaponLaser}
	p.Update(0)
	assert.InDelta(t, animPulseStep, p.Anim(), 1e-9)

	p = &Projectile{Kind: WeaponPlasma}
	before := p.Position
	p.Update(0)
	assert.InDelta(t, animSpiralStep, p.Anim(), 1e-9)
	assert.Equal(t, before, p.Position, "spiral is cosmetic only")
}
