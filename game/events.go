package game

// EventType identifies a simulation event
type EventType uint8

const (
	EventMuzzleFlash EventType = iota + 1
	EventExplosion
	EventTrail
	EventPowerUpCollected
	EventEffectExpired
	EventMissionComplete
	EventMissionStarted
	EventGameOver
)

var eventNames = map[EventType]string{
	EventMuzzleFlash:      "muzzle_flash",
	EventExplosion:        "explosion",
	EventTrail:            "trail",
	EventPowerUpCollected: "powerup",
	EventEffectExpired:    "effect_expired",
	EventMissionComplete:  "mission_complete",
	EventMissionStarted:   "mission_started",
	EventGameOver:         "game_over",
}

func (t EventType) String() string {
	if n, ok := eventNames[t]; ok {
		return n
	}
	return "unknown"
}

// Event is a one-shot occurrence handed to the rendering and UI
// collaborators. Only the fields relevant to Type are set.
type Event struct {
	Type     EventType
	Position Vec3
	// Size is the explosion size
	Size    float64
	Weapon  WeaponKind
	PowerUp PowerUpKind
	Effect  EffectKind
	Mission int
	Score   int
}

func (s *Sim) emit(e Event) {
	s.events = append(s.events, e)
}

// drainEvents hands over the buffered events and resets the buffer
func (s *Sim) drainEvents() []Event {
	if len(s.events) == 0 {
		return nil
	}
	out := s.events
	s.events = nil
	return out
}
