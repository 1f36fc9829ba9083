package game

import "math"

// HostileClass is the cosmetic hull variant, chosen by mission
type HostileClass uint8

const (
	HostileBasic HostileClass = iota
	HostileAdvanced
	HostileElite
)

// ClassForMission returns the hull variant spawned during a mission
func ClassForMission(mission int) HostileClass {
	switch {
	case mission <= 2:
		return HostileBasic
	case mission <= 4:
		return HostileAdvanced
	default:
		return HostileElite
	}
}

// Hostile is an enemy ship homing on the player
type Hostile struct {
	ID       uint32
	Class    HostileClass
	Position Vec3
	Velocity Vec3
	Facing   Orientation
	Speed    float64
	Health   int
	Points   int

	pulse float64
	dead  bool
}

// HostileHealthForMission is ceil(mission/2), at least 1
func HostileHealthForMission(mission int) int {
	hp := (mission + 1) / 2
	if hp < 1 {
		hp = 1
	}
	return hp
}

// newHostile places a hostile at random spherical coordinates around center
func (s *Sim) newHostile(center Vec3) *Hostile {
	dist := s.randomRange(HostileSpawnMinDist, HostileSpawnMaxDist)
	polar := (s.randomFloat() - 0.5) * math.Pi
	azimuth := s.randomAngle()
	sp := math.Sin(polar)
	offset := Vec3{
		X: dist * sp * math.Cos(azimuth),
		Y: dist * sp * math.Sin(azimuth),
		Z: dist * math.Cos(polar),
	}
	hp := HostileHealthForMission(s.mission.Index)
	h := &Hostile{
		ID:       s.nextID(),
		Class:    ClassForMission(s.mission.Index),
		Position: center.Add(offset),
		Speed:    s.randomRange(HostileMinSpeed, HostileMaxSpeed) * s.mission.SpeedMultiplier,
		Health:   hp,
		Points:   HostilePointsPerHP * hp,
	}
	h.Facing = LookAt(h.Position, center)
	return h
}

// Steer points the hostile straight at target and moves it one tick.
// Velocity is recomputed every tick; there is no inertia.
func (h *Hostile) Steer(target Vec3) {
	h.Velocity = target.Sub(h.Position).Normalize().Scale(h.Speed)
	h.Position = h.Position.Add(h.Velocity)
	h.Facing = LookAt(h.Position, target)
	h.pulse += animPulseStep
}

// OutOfPlay reports whether the hostile-to-player vector, projected on the
// player's forward axis, is below the despawn threshold
func (h *Hostile) OutOfPlay(p *Player) bool {
	toPlayer := p.Position.Sub(h.Position)
	return toPlayer.Dot(p.Facing.Forward()) < HostileBehindDespawn
}

// Hit applies damage and returns true if the hostile is destroyed
func (h *Hostile) Hit(dmg int) bool {
	h.Health -= dmg
	return h.Health <= 0
}

// ToView converts to the renderer view
func (h *Hostile) ToView() EntityView {
	return EntityView{
		ID:       h.ID,
		Type:     EntityHostile,
		Variant:  uint8(h.Class),
		Position: h.Position,
		Facing:   h.Facing,
		Anim:     h.pulse,
	}
}

// spawnHostiles runs the spawn gate
func (s *Sim) spawnHostiles() {
	if s.spawnedOnce && s.now-s.lastSpawn < s.mission.SpawnInterval {
		return
	}
	s.hostiles = append(s.hostiles, s.newHostile(s.player.Position))
	s.lastSpawn = s.now
	s.spawnedOnce = true

	if s.chance(SpawnPowerUpChance) {
		host := s.hostiles[s.randomIndex(len(s.hostiles))]
		s.spawnPowerUp(host.Position)
	}
}

// updateHostiles steers every hostile and drops the ones out of play. No
// points or progress are awarded for those.
func (s *Sim) updateHostiles() {
	for i := len(s.hostiles) - 1; i >= 0; i-- {
		h := s.hostiles[i]
		h.Steer(s.player.Position)
		if h.OutOfPlay(s.player) {
			s.removeHostile(i)
		}
	}
}

func (s *Sim) removeHostile(i int) {
	last := len(s.hostiles) - 1
	copy(s.hostiles[i:], s.hostiles[i+1:])
	s.hostiles[last] = nil
	s.hostiles = s.hostiles[:last]
}

// compactHostiles drops hostiles flagged dead during a collision pass,
// keeping the order of the survivors
func (s *Sim) compactHostiles() {
	n := 0
	for _, h := range s.hostiles {
		if !h.dead {
			s.hostiles[n] = h
			n++
		}
	}
	for i := n; i < len(s.hostiles); i++ {
		s.hostiles[i] = nil
	}
	s.hostiles = s.hostiles[:n]
}
