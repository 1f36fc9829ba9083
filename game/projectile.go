package game

import "math"

// Projectile is a fired round. Damage is fixed when it is spawned.
type Projectile struct {
	ID        uint32
	Kind      WeaponKind
	Position  Vec3
	Velocity  Vec3
	Facing    Orientation
	Damage    int
	SpawnedAt int64 // ms
	Lifetime  int64 // ms

	pulse     float64
	spiral    float64
	lastTrail int64
}

// NewProjectile creates a projectile leaving the player's muzzle, shifted
// sideways by lateral units along the player's right vector.
func NewProjectile(id uint32, p *Player, w *Weapon, lateral float64, now int64) *Projectile {
	def := GetWeaponDef(w.Kind)
	forward := p.Facing.Forward()
	pos := p.Position.
		Add(p.Facing.Right().Scale(lateral)).
		Add(forward.Scale(MuzzleOffset))
	return &Projectile{
		ID:        id,
		Kind:      w.Kind,
		Position:  pos,
		Velocity:  forward.Scale(def.Speed),
		Facing:    p.Facing,
		Damage:    w.Damage(),
		SpawnedAt: now,
		Lifetime:  ProjectileLifetime,
		lastTrail: now,
	}
}

// Update moves the projectile one tick. Returns true if a trail event is
// due.
func (p *Projectile) Update(now int64) bool {
	def := GetWeaponDef(p.Kind)
	p.Position = p.Position.Add(p.Velocity)
	if def.Pulse {
		p.pulse += animPulseStep
	}
	if def.Spiral {
		p.spiral += animSpiralStep
	}
	if def.Trail && now-p.lastTrail > TrailInterval {
		p.lastTrail = now
		return true
	}
	return false
}

// Expired reports whether the projectile outlived its lifetime or left the
// horizon around the player
func (p *Projectile) Expired(now int64, playerPos Vec3) bool {
	if now-p.SpawnedAt > p.Lifetime {
		return true
	}
	return Distance(p.Position, playerPos) > ProjectileHorizon
}

// Anim is the opaque cosmetic animation parameter for the renderer
func (p *Projectile) Anim() float64 {
	if GetWeaponDef(p.Kind).Spiral {
		return math.Mod(p.spiral, 2*math.Pi)
	}
	return p.pulse
}

// ToView converts to the renderer view
func (p *Projectile) ToView() EntityView {
	return EntityView{
		ID:       p.ID,
		Type:     EntityProjectile,
		Variant:  uint8(p.Kind),
		Position: p.Position,
		Facing:   p.Facing,
		Anim:     p.Anim(),
	}
}

// updateProjectiles advances every projectile and drops the expired ones.
// Iterates in reverse so in-place removal never skips a neighbor.
func (s *Sim) updateProjectiles() {
	for i := len(s.projectiles) - 1; i >= 0; i-- {
		proj := s.projectiles[i]
		if proj.Update(s.now) {
			s.emit(Event{Type: EventTrail, Position: proj.Position, Weapon: proj.Kind})
		}
		if proj.Expired(s.now, s.player.Position) {
			s.removeProjectile(i)
		}
	}
}

func (s *Sim) removeProjectile(i int) {
	last := len(s.projectiles) - 1
	copy(s.projectiles[i:], s.projectiles[i+1:])
	s.projectiles[last] = nil
	s.projectiles = s.projectiles[:last]
}

// fire spawns a volley if the weapon is off cooldown
func (s *Sim) fire() {
	if !s.weapon.Ready(s.now, &s.effects) {
		return
	}
	offsets := []float64{0}
	if s.effects.Active(EffectTripleShot) {
		offsets = []float64{-TripleShotSpread, 0, TripleShotSpread}
	}
	for _, off := range offsets {
		if len(s.projectiles) >= MaxProjectiles {
			break
		}
		proj := NewProjectile(s.nextID(), s.player, &s.weapon, off, s.now)
		s.projectiles = append(s.projectiles, proj)
		s.emit(Event{Type: EventMuzzleFlash, Position: proj.Position, Weapon: proj.Kind})
	}
	s.weapon.MarkFired(s.now)
}
