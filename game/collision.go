package game

// CheckCollision checks if two spheres overlap. Touching counts.
func CheckCollision(c1 Vec3, r1 float64, c2 Vec3, r2 float64) bool {
	radSum := r1 + r2
	return c2.Sub(c1).LenSq() <= radSum*radSum
}

// checkCollisions runs both resolution passes. Order matters: hostiles
// destroyed by projectiles are gone before the player pass.
func (s *Sim) checkCollisions() {
	s.checkProjectileHits()
	s.checkPlayerCollisions()
}

// checkProjectileHits resolves projectile-hostile hits. A projectile
// registers at most one hit per tick. Destroyed hostiles are flagged and
// compacted at the end of the pass so grid indices stay valid.
func (s *Sim) checkProjectileHits() {
	s.grid.Clear()
	if len(s.projectiles) == 0 || len(s.hostiles) == 0 {
		return
	}
	for i, h := range s.hostiles {
		s.grid.InsertSphere(h.Position, HostileRadius, i)
	}

	for i := len(s.projectiles) - 1; i >= 0; i-- {
		proj := s.projectiles[i]
		s.candidates = s.grid.QueryBuf(proj.Position, ProjectileRadius, s.candidates[:0])
		for _, j := range s.candidates {
			h := s.hostiles[j]
			if h.dead {
				continue
			}
			if !CheckCollision(proj.Position, ProjectileRadius, h.Position, HostileRadius) {
				continue
			}
			if h.Hit(proj.Damage) {
				h.dead = true
				s.score += h.Points
				s.recordKill()
				s.emit(Event{
					Type:     EventExplosion,
					Position: h.Position,
					Size:     GetWeaponDef(proj.Kind).ExplosionSize,
				})
				if s.chance(DestroyPowerUpChance) {
					s.spawnPowerUp(h.Position)
				}
			}
			s.removeProjectile(i)
			break
		}
	}
	s.compactHostiles()
}

// checkPlayerCollisions resolves ramming. Shields stop the damage but the
// hostile is always destroyed and half its points are awarded.
func (s *Sim) checkPlayerCollisions() {
	for i := len(s.hostiles) - 1; i >= 0; i-- {
		h := s.hostiles[i]
		if !CheckCollision(s.player.Position, PlayerHitRadius, h.Position, HostileRadius) {
			continue
		}
		killed := false
		if !s.effects.Active(EffectShield) {
			s.emit(Event{Type: EventExplosion, Position: h.Position, Size: CollisionExplosion})
			killed = s.player.TakeDamage(HostileCollisionDmg)
		}
		s.removeHostile(i)
		s.score += h.Points / 2
		// the game over event reports the score including this ram
		if killed {
			s.gameOver()
		}
		s.recordKill()
	}
}

// recordKill bumps kill and mission counters and runs the inline mission
// check
func (s *Sim) recordKill() {
	s.kills++
	s.mission.Progress++
	s.tickKills++
	if s.mission.Progress >= s.mission.Target {
		s.completeMission()
	}
}
