package main

import (
	"encoding/binary"
	"encoding/json"

	"starfighter/game"
)

// Client -> Server message types
const (
	MsgHello   = "hello"
	MsgStart   = "start"
	MsgInput   = "input"
	MsgUpgrade = "upgrade"
	MsgRestart = "restart"
	MsgLeave   = "leave"
)

// Server -> Client message types
const (
	MsgWelcome = "welcome"
	MsgState   = "state" // msgpack binary frame
	MsgEvents  = "events"
	MsgPhase   = "phase"
	MsgRecord  = "record"
	MsgError   = "error"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// HelloMsg opens a pilot session, or re-attaches to one when Token is set
type HelloMsg struct {
	Name  string `json:"name"`
	Token string `json:"token,omitempty"`
}

// WelcomeMsg answers a hello
type WelcomeMsg struct {
	SID     string `json:"sid"`
	Token   string `json:"token"`
	Resumed bool   `json:"resumed,omitempty"`
}

// ClientInput is the per-tick intent sample. Look deltas are raw pointer
// movement since the previous message.
type ClientInput struct {
	Forward  bool    `json:"f"`
	Backward bool    `json:"b"`
	Left     bool    `json:"l"`
	Right    bool    `json:"r"`
	Up       bool    `json:"u"`
	Down     bool    `json:"d"`
	Fire     bool    `json:"fire"`
	LookX    float64 `json:"lx"`
	LookY    float64 `json:"ly"`
}

// Binary input flag bits
const (
	inputForward  = 1 << 0
	inputBackward = 1 << 1
	inputLeft     = 1 << 2
	inputRight    = 1 << 3
	inputUp       = 1 << 4
	inputDown     = 1 << 5
	inputFire     = 1 << 6
)

const binaryInputLen = 8

// decodeBinaryInput decodes [0x01, flags, lx_hi, lx_lo, ly_hi, ly_lo, 0, 0]
func decodeBinaryInput(msg []byte) (ClientInput, bool) {
	if len(msg) != binaryInputLen || msg[0] != 0x01 {
		return ClientInput{}, false
	}
	flags := msg[1]
	return ClientInput{
		Forward:  flags&inputForward != 0,
		Backward: flags&inputBackward != 0,
		Left:     flags&inputLeft != 0,
		Right:    flags&inputRight != 0,
		Up:       flags&inputUp != 0,
		Down:     flags&inputDown != 0,
		Fire:     flags&inputFire != 0,
		LookX:    float64(int16(binary.BigEndian.Uint16(msg[2:4]))),
		LookY:    float64(int16(binary.BigEndian.Uint16(msg[4:6]))),
	}, true
}

// UpgradeMsg picks the reward after a completed mission
type UpgradeMsg struct {
	Choice string `json:"choice"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// PhaseMsg announces a phase change
type PhaseMsg struct {
	Phase   string `json:"phase"`
	Mission int    `json:"mission"`
	Target  int    `json:"target"`
	Score   int    `json:"score"`
}

// EventMsg is one simulation event
type EventMsg struct {
	Type    string     `json:"type"`
	Pos     [3]float64 `json:"pos"`
	Size    float64    `json:"size,omitempty"`
	Weapon  string     `json:"weapon,omitempty"`
	PowerUp string     `json:"powerup,omitempty"`
	Effect  string     `json:"effect,omitempty"`
	Mission int        `json:"mission,omitempty"`
	Score   int        `json:"score,omitempty"`
}

// RecordMsg reports a stored run
type RecordMsg struct {
	Score   int `json:"score"`
	Kills   int `json:"kills"`
	Mission int `json:"mission"`
	Rank    int `json:"rank"`
	Best    int `json:"best"`
}

// EntityState is one renderable entity in a state frame
type EntityState struct {
	ID    uint32     `msgpack:"id"`
	Kind  uint8      `msgpack:"k"`
	Pos   [3]float64 `msgpack:"p"`
	Yaw   float64    `msgpack:"y"`
	Pitch float64    `msgpack:"pi"`
	Anim  float64    `msgpack:"a"`
}

// HUDState is the HUD block of a state frame
type HUDState struct {
	Phase          string  `msgpack:"ph"`
	Score          int     `msgpack:"sc"`
	Kills          int     `msgpack:"k"`
	Health         int     `msgpack:"hp"`
	Speed          float64 `msgpack:"sp"`
	Altitude       float64 `msgpack:"alt"`
	Hostiles       int     `msgpack:"hc"`
	Projectiles    int     `msgpack:"pc"`
	Weapon         string  `msgpack:"w"`
	WeaponTier     int     `msgpack:"wt"`
	Mission        int     `msgpack:"m"`
	Progress       int     `msgpack:"mp"`
	Target         int     `msgpack:"mt"`
	ShieldSecs     int     `msgpack:"sh"`
	RapidFireSecs  int     `msgpack:"rf"`
	TripleShotSecs int     `msgpack:"ts"`
}

// StateFrame is the msgpack-encoded binary state broadcast
type StateFrame struct {
	Tick        uint64        `msgpack:"t"`
	Pos         [3]float64    `msgpack:"p"`
	Yaw         float64       `msgpack:"y"`
	Pitch       float64       `msgpack:"pi"`
	Projectiles []EntityState `msgpack:"pr"`
	Hostiles    []EntityState `msgpack:"h"`
	PowerUps    []EntityState `msgpack:"pu"`
	HUD         HUDState      `msgpack:"hud"`
}

func vec(v game.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func entityStates(views []game.EntityView) []EntityState {
	out := make([]EntityState, len(views))
	for i, v := range views {
		out[i] = EntityState{
			ID:    v.ID,
			Kind:  v.Variant,
			Pos:   vec(v.Position),
			Yaw:   v.Facing.Yaw,
			Pitch: v.Facing.Pitch,
			Anim:  v.Anim,
		}
	}
	return out
}

func hudState(h game.HUD) HUDState {
	return HUDState{
		Phase:          h.Phase.String(),
		Score:          h.Score,
		Kills:          h.Kills,
		Health:         h.Health,
		Speed:          h.Speed,
		Altitude:       h.Altitude,
		Hostiles:       h.Hostiles,
		Projectiles:    h.Projectiles,
		Weapon:         h.Weapon.String(),
		WeaponTier:     h.WeaponTier,
		Mission:        h.Mission,
		Progress:       h.Progress,
		Target:         h.Target,
		ShieldSecs:     h.ShieldSecs,
		RapidFireSecs:  h.RapidFireSecs,
		TripleShotSecs: h.TripleShotSecs,
	}
}

// NewStateFrame converts a simulation snapshot to the wire frame
func NewStateFrame(s game.Snapshot) StateFrame {
	return StateFrame{
		Tick:        s.Tick,
		Pos:         vec(s.Player.Position),
		Yaw:         s.Player.Facing.Yaw,
		Pitch:       s.Player.Facing.Pitch,
		Projectiles: entityStates(s.Projectiles),
		Hostiles:    entityStates(s.Hostiles),
		PowerUps:    entityStates(s.PowerUps),
		HUD:         hudState(s.HUD),
	}
}

// NewEventMsgs converts simulation events to their wire form
func NewEventMsgs(events []game.Event) []EventMsg {
	out := make([]EventMsg, len(events))
	for i, e := range events {
		m := EventMsg{
			Type:    e.Type.String(),
			Pos:     vec(e.Position),
			Mission: e.Mission,
			Score:   e.Score,
		}
		switch e.Type {
		case game.EventExplosion:
			m.Size = e.Size
		case game.EventMuzzleFlash, game.EventTrail:
			m.Weapon = e.Weapon.String()
		case game.EventPowerUpCollected:
			m.PowerUp = e.PowerUp.String()
		case game.EventEffectExpired:
			m.Effect = e.Effect.String()
		}
		out[i] = m
	}
	return out
}

// ToInput converts the wire sample to a simulation input
func (ci ClientInput) ToInput() game.Input {
	return game.Input{
		Forward:  ci.Forward,
		Backward: ci.Backward,
		Left:     ci.Left,
		Right:    ci.Right,
		Up:       ci.Up,
		Down:     ci.Down,
		Fire:     ci.Fire,
		LookX:    ci.LookX,
		LookY:    ci.LookY,
	}
}
