package game

// Input is the per-tick intent sample from the input collaborator
type Input struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Up       bool
	Down     bool
	Fire     bool
	// LookX and LookY are raw pointer deltas since the previous tick
	LookX float64
	LookY float64
}

// Player is the piloted ship (the camera)
type Player struct {
	Position Vec3
	Velocity Vec3
	Facing   Orientation
	Health   int
}

// NewPlayer creates a player at the origin facing -Z
func NewPlayer() *Player {
	p := &Player{}
	p.Reset()
	return p
}

// Reset puts the player back at the origin with full health
func (p *Player) Reset() {
	p.Position = Vec3{}
	p.Velocity = Vec3{}
	p.Facing = Orientation{}
	p.Health = PlayerMaxHealth
}

// Update applies look and movement intents for one tick
func (p *Player) Update(in Input) {
	// Look. Pitch is clamped short of the poles so the basis never flips.
	p.Facing.Yaw -= in.LookX * LookSensitivity
	p.Facing.Pitch = Clamp(p.Facing.Pitch-in.LookY*LookSensitivity, -PitchLimit, PitchLimit)

	forward := p.Facing.Forward()
	right := p.Facing.Right()
	up := p.Facing.Up()

	if in.Forward {
		p.Velocity = p.Velocity.Add(forward.Scale(PlayerAccel))
	}
	if in.Backward {
		p.Velocity = p.Velocity.Add(forward.Scale(-PlayerAccel * PlayerBackwardMul))
	}
	if in.Left {
		p.Velocity = p.Velocity.Add(right.Scale(-PlayerAccel))
	}
	if in.Right {
		p.Velocity = p.Velocity.Add(right.Scale(PlayerAccel))
	}
	if in.Up {
		p.Velocity = p.Velocity.Add(up.Scale(PlayerAccel))
	}
	if in.Down {
		p.Velocity = p.Velocity.Add(up.Scale(-PlayerAccel))
	}

	p.Velocity = p.Velocity.Scale(PlayerFriction).ClampLen(PlayerMaxSpeed)
	p.Position = p.Position.Add(p.Velocity)

	p.Position.X = Clamp(p.Position.X, -WorldHalfX, WorldHalfX)
	p.Position.Y = Clamp(p.Position.Y, -WorldHalfY, WorldHalfY)
	p.Position.Z = Clamp(p.Position.Z, -WorldHalfZ, WorldHalfZ)
}

// Speed returns the velocity magnitude
func (p *Player) Speed() float64 {
	return p.Velocity.Len()
}

// Altitude is the horizontal distance from the world origin
func (p *Player) Altitude() float64 {
	return Vec3{p.Position.X, 0, p.Position.Z}.Len()
}

// TakeDamage reduces health, clamping at zero. Returns true if health is
// now zero.
func (p *Player) TakeDamage(dmg int) bool {
	if dmg < 0 {
		dmg = 0
	}
	p.Health -= dmg
	if p.Health <= 0 {
		p.Health = 0
		return true
	}
	return false
}

// Heal adds health up to the maximum
func (p *Player) Heal(amount int) {
	if amount < 0 {
		amount = 0
	}
	p.Health += amount
	if p.Health > PlayerMaxHealth {
		p.Health = PlayerMaxHealth
	}
}
