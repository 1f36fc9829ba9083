package game

// PowerUpKind identifies what a power-up grants
type PowerUpKind uint8

const (
	PowerUpWeapon PowerUpKind = iota
	PowerUpShield
	PowerUpRapidFire
	PowerUpHealth
	powerUpKindCount
)

var powerUpNames = [powerUpKindCount]string{"weapon", "shield", "rapidfire", "health"}

func (k PowerUpKind) String() string {
	if k >= powerUpKindCount {
		return "unknown"
	}
	return powerUpNames[k]
}

// PowerUp is a floating collectible
type PowerUp struct {
	ID        uint32
	Kind      PowerUpKind
	Position  Vec3
	Drift     Vec3
	SpawnedAt int64 // ms
	Lifetime  int64 // ms

	pulse float64
	spin  Orientation
}

// spawnPowerUp drops a power-up of a uniformly chosen kind at pos
func (s *Sim) spawnPowerUp(pos Vec3) *PowerUp {
	pu := &PowerUp{
		ID:   s.nextID(),
		Kind: PowerUpKind(s.randomIndex(int(powerUpKindCount))),
		Drift: Vec3{
			X: s.randomRange(-PowerUpMaxDrift, PowerUpMaxDrift),
			Y: s.randomRange(-PowerUpMaxDrift, PowerUpMaxDrift),
			Z: s.randomRange(-PowerUpMaxDrift, PowerUpMaxDrift),
		},
		Position:  pos,
		SpawnedAt: s.now,
		Lifetime:  PowerUpLifetime,
	}
	s.powerUps = append(s.powerUps, pu)
	return pu
}

// Update drifts the power-up one tick
func (pu *PowerUp) Update() {
	pu.Position = pu.Position.Add(pu.Drift)
	pu.pulse += animPulseStep
	pu.spin.Yaw += 0.02
	pu.spin.Pitch += 0.01
}

// Expired reports whether the power-up outlived its lifetime
func (pu *PowerUp) Expired(now int64) bool {
	return now-pu.SpawnedAt > pu.Lifetime
}

// ToView converts to the renderer view
func (pu *PowerUp) ToView() EntityView {
	return EntityView{
		ID:       pu.ID,
		Type:     EntityPowerUp,
		Variant:  uint8(pu.Kind),
		Position: pu.Position,
		Facing:   pu.spin,
		Anim:     pu.pulse,
	}
}

// updatePowerUps drifts, expires and collects power-ups
func (s *Sim) updatePowerUps() {
	for i := len(s.powerUps) - 1; i >= 0; i-- {
		pu := s.powerUps[i]
		pu.Update()
		if pu.Expired(s.now) {
			s.removePowerUp(i)
			continue
		}
		if CheckCollision(s.player.Position, PlayerPickupRadius, pu.Position, PowerUpRadius) {
			s.collectPowerUp(pu.Kind)
			s.removePowerUp(i)
		}
	}
}

func (s *Sim) removePowerUp(i int) {
	last := len(s.powerUps) - 1
	copy(s.powerUps[i:], s.powerUps[i+1:])
	s.powerUps[last] = nil
	s.powerUps = s.powerUps[:last]
}

// collectPowerUp applies a power-up's effect immediately
func (s *Sim) collectPowerUp(kind PowerUpKind) {
	switch kind {
	case PowerUpWeapon:
		s.weapon.Upgrade()
	case PowerUpShield:
		s.effects.Set(EffectShield, ShieldDuration)
	case PowerUpRapidFire:
		s.effects.Set(EffectRapidFire, RapidFireDuration)
	case PowerUpHealth:
		s.player.Heal(PowerUpHeal)
	default:
		return
	}
	s.emit(Event{Type: EventPowerUpCollected, Position: s.player.Position, PowerUp: kind})
}
