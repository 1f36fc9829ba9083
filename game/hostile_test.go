package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostileHealthForMission(t *testing.T) {
	tests := []struct{ mission, hp int }{
		{1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {0, 1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.hp, HostileHealthForMission(tc.mission), "mission %d", tc.mission)
	}
}

func TestClassForMission(t *testing.T) {
	assert.Equal(t, HostileBasic, ClassForMission(1))
	assert.Equal(t, HostileAdvanced, ClassForMission(3))
	assert.Equal(t, HostileElite, ClassForMission(9))
}

func TestNewHostilePlacement(t *testing.T) {
	s := New(DefaultConfig(), NewRand(3))
	require.NoError(t, s.Start())
	center := Vec3{10, -5, 20}
	for i := 0; i < 200; i++ {
		h := s.newHostile(center)
		d := Distance(h.Position, center)
		assert.GreaterOrEqual(t, d, HostileSpawnMinDist-1e-9)
		assert.LessOrEqual(t, d, HostileSpawnMaxDist+1e-9)
		assert.GreaterOrEqual(t, h.Speed, HostileMinSpeed)
		assert.LessOrEqual(t, h.Speed, HostileMaxSpeed)
		assert.Equal(t, 1, h.Health)
		assert.Equal(t, 100, h.Points)
	}
}

func TestNewHostileScalesWithMission(t *testing.T) {
	s := newPlayingSim(t)
	s.mission = NewMission(5)
	h := s.newHostile(Vec3{})
	assert.Equal(t, 3, h.Health)
	assert.Equal(t, 300, h.Points)
	assert.InDelta(t, (HostileMinSpeed+0.99*(HostileMaxSpeed-HostileMinSpeed))*1.8, h.Speed, 1e-9)
}

func TestHostileSteer(t *testing.T) {
	h := &Hostile{Position: Vec3{10, 0, 0}, Speed: 0.1}
	h.Steer(Vec3{})
	assert.InDelta(t, 9.9, h.Position.X, 1e-9)
	assert.InDelta(t, -0.1, h.Velocity.X, 1e-9)
	f := h.Facing.Forward()
	assert.InDelta(t, -1.0, f.X, 1e-9)

	// No inertia: a new target redirects immediately
	h.Steer(Vec3{9.9, 10, 0})
	assert.InDelta(t, 0, h.Velocity.X, 1e-9)
	assert.InDelta(t, 0.1, h.Velocity.Y, 1e-9)
}

func TestHostileOutOfPlay(t *testing.T) {
	p := NewPlayer()
	assert.True(t, (&Hostile{Position: Vec3{0, 0, -60}}).OutOfPlay(p))
	assert.False(t, (&Hostile{Position: Vec3{0, 0, -40}}).OutOfPlay(p))
	assert.False(t, (&Hostile{Position: Vec3{0, 0, 60}}).OutOfPlay(p))
	assert.False(t, (&Hostile{Position: Vec3{60, 0, 0}}).OutOfPlay(p))
}

func TestOutOfPlayHostileRemovedWithoutScore(t *testing.T) {
	s := newPlayingSim(t)
	addHostile(s, Vec3{0, 0, -80}, 1)
	s.updateHostiles()
	assert.Empty(t, s.hostiles)
	assert.Zero(t, s.Score())
	assert.Zero(t, s.Mission().Progress)
}

func TestSpawnGate(t *testing.T) {
	s := newPlayingSim(t)
	s.Step(Input{})
	require.Len(t, s.hostiles, 1, "first spawn is immediate")

	// 1200ms interval at mission 1: the next spawn is due at tick 76
	for i := 2; i <= 75; i++ {
		s.Step(Input{})
	}
	assert.Len(t, s.hostiles, 1)
	s.Step(Input{})
	assert.Len(t, s.hostiles, 2)
}

func TestSpawnMayDropPowerUp(t *testing.T) {
	s := New(DefaultConfig(), fixedRand{0.05})
	require.NoError(t, s.Start())
	s.Step(Input{})
	require.Len(t, s.hostiles, 1)
	require.Len(t, s.powerUps, 1)
	assert.Equal(t, PowerUpWeapon, s.powerUps[0].Kind)
}

func TestSpawnWithoutDrop(t *testing.T) {
	s := newPlayingSim(t)
	s.Step(Input{})
	assert.Empty(t, s.powerUps)
}

func TestHostileHit(t *testing.T) {
	h := &Hostile{Health: 3}
	assert.False(t, h.Hit(2))
	assert.True(t, h.Hit(1))
}
