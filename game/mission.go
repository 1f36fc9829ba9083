package game

import (
	"errors"
	"fmt"
)

// Phase is the overall game state
type Phase uint8

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhaseMissionComplete
	PhaseGameOver
)

var phaseNames = [...]string{"menu", "playing", "missionComplete", "gameOver"}

func (p Phase) String() string {
	if int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// UpgradeChoice is the reward picked after a completed mission
type UpgradeChoice uint8

const (
	UpgradeWeapon UpgradeChoice = iota
	UpgradeShield
	UpgradeRapidFire
	// UpgradeTripleShot has no wire name; only in-process callers can pick
	// it.
	UpgradeTripleShot
)

// ParseUpgradeChoice maps a wire name to a choice
func ParseUpgradeChoice(s string) (UpgradeChoice, error) {
	switch s {
	case "weapon":
		return UpgradeWeapon, nil
	case "shield":
		return UpgradeShield, nil
	case "rapidfire":
		return UpgradeRapidFire, nil
	}
	return 0, fmt.Errorf("unknown upgrade %q", s)
}

// ErrInvalidTransition is returned when a signal arrives in a phase that
// does not accept it
var ErrInvalidTransition = errors.New("invalid phase transition")

// Mission holds progression state and the difficulty derived from it
type Mission struct {
	Index           int
	Progress        int
	Target          int
	SpawnInterval   int64 // ms
	SpeedMultiplier float64
}

// MissionTarget is the kill count needed to finish mission n
func MissionTarget(n int) int {
	return BaseMissionTarget + (n-1)*MissionTargetStep
}

// SpawnIntervalFor returns the hostile spawn interval for mission n in ms
func SpawnIntervalFor(n int) int64 {
	iv := int64(BaseSpawnInterval - (n-1)*SpawnIntervalStep)
	if iv < MinSpawnInterval {
		iv = MinSpawnInterval
	}
	return iv
}

// SpeedMultiplierFor returns the hostile speed multiplier for mission n
func SpeedMultiplierFor(n int) float64 {
	return 1 + float64(n-1)*SpeedMultiplierStep
}

// NewMission returns the state at the start of mission n
func NewMission(n int) Mission {
	if n < 1 {
		n = 1
	}
	return Mission{
		Index:           n,
		Target:          MissionTarget(n),
		SpawnInterval:   SpawnIntervalFor(n),
		SpeedMultiplier: SpeedMultiplierFor(n),
	}
}

// Start begins a run from the menu
func (s *Sim) Start() error {
	if s.phase != PhaseMenu {
		return fmt.Errorf("start in %s: %w", s.phase, ErrInvalidTransition)
	}
	s.reset()
	s.phase = PhasePlaying
	s.emit(Event{Type: EventMissionStarted, Mission: s.mission.Index})
	return nil
}

// Restart resets everything after a game over and starts a new run
func (s *Sim) Restart() error {
	if s.phase != PhaseGameOver {
		return fmt.Errorf("restart in %s: %w", s.phase, ErrInvalidTransition)
	}
	s.phase = PhaseMenu
	return s.Start()
}

// ChooseUpgrade applies the reward for a completed mission and starts the
// next one. Hostiles, power-ups and running effects are cleared before the
// reward is applied, so a timed reward lasts its full duration.
func (s *Sim) ChooseUpgrade(choice UpgradeChoice) error {
	if s.phase != PhaseMissionComplete {
		return fmt.Errorf("upgrade in %s: %w", s.phase, ErrInvalidTransition)
	}
	if choice > UpgradeTripleShot {
		return fmt.Errorf("upgrade %d: %w", choice, ErrInvalidTransition)
	}

	s.mission = NewMission(s.mission.Index + 1)
	clear(s.hostiles)
	s.hostiles = s.hostiles[:0]
	clear(s.powerUps)
	s.powerUps = s.powerUps[:0]
	s.effects.Clear()

	switch choice {
	case UpgradeWeapon:
		s.weapon.Upgrade()
	case UpgradeShield:
		s.effects.Set(EffectShield, ShieldDuration)
	case UpgradeRapidFire:
		s.effects.Set(EffectRapidFire, RapidFireDuration)
	case UpgradeTripleShot:
		s.effects.Set(EffectTripleShot, TripleShotDuration)
	}

	s.phase = PhasePlaying
	s.emit(Event{Type: EventMissionStarted, Mission: s.mission.Index})
	return nil
}

// completeMission moves to missionComplete unless this tick already changed
// phase
func (s *Sim) completeMission() {
	if s.transitioned || s.phase != PhasePlaying {
		return
	}
	s.transitioned = true
	s.phase = PhaseMissionComplete
	s.emit(Event{Type: EventMissionComplete, Mission: s.mission.Index, Score: s.score})
}

// gameOver ends the run. It takes precedence over a mission completed
// earlier in the same tick.
func (s *Sim) gameOver() {
	if s.phase == PhaseGameOver {
		return
	}
	s.transitioned = true
	s.phase = PhaseGameOver
	s.emit(Event{Type: EventGameOver, Mission: s.mission.Index, Score: s.score})
}
