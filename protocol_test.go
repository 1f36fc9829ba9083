package main

import (
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"starfighter/game"
)

func encodeBinaryInput(in ClientInput) []byte {
	msg := make([]byte, binaryInputLen)
	msg[0] = 0x01
	var flags byte
	for bit, on := range map[byte]bool{
		inputForward:  in.Forward,
		inputBackward: in.Backward,
		inputLeft:     in.Left,
		inputRight:    in.Right,
		inputUp:       in.Up,
		inputDown:     in.Down,
		inputFire:     in.Fire,
	} {
		if on {
			flags |= bit
		}
	}
	msg[1] = flags
	binary.BigEndian.PutUint16(msg[2:4], uint16(int16(in.LookX)))
	binary.BigEndian.PutUint16(msg[4:6], uint16(int16(in.LookY)))
	return msg
}

func TestDecodeBinaryInput(t *testing.T) {
	want := ClientInput{Forward: true, Right: true, Down: true, Fire: true, LookX: -12, LookY: 300}
	got, ok := decodeBinaryInput(encodeBinaryInput(want))
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestDecodeBinaryInputRejectsMalformed(t *testing.T) {
	valid := encodeBinaryInput(ClientInput{Forward: true})

	_, ok := decodeBinaryInput(valid[:6])
	assert.False(t, ok, "short message")

	bad := append([]byte(nil), valid...)
	bad[0] = 0x02
	_, ok = decodeBinaryInput(bad)
	assert.False(t, ok, "wrong opcode")

	_, ok = decodeBinaryInput(nil)
	assert.False(t, ok)
}

func TestClientInputJSON(t *testing.T) {
	var ci ClientInput
	require.NoError(t, json.Unmarshal([]byte(`{"f":true,"u":true,"fire":true,"lx":4.5,"ly":-2}`), &ci))

	in := ci.ToInput()
	assert.True(t, in.Forward)
	assert.True(t, in.Up)
	assert.True(t, in.Fire)
	assert.False(t, in.Backward)
	assert.Equal(t, 4.5, in.LookX)
	assert.Equal(t, -2.0, in.LookY)
}

// constRand always returns v. 0.99 spawns hostiles off to the side and
// never rolls a drop.
type constRand float64

func (r constRand) Float64() float64 { return float64(r) }

func TestStateFrameMsgpack(t *testing.T) {
	sim := game.New(game.DefaultConfig(), constRand(0.99))
	require.NoError(t, sim.Start())
	for i := 0; i < 5; i++ {
		sim.Step(game.Input{Fire: true})
	}

	frame := NewStateFrame(sim.Snapshot())
	require.NotEmpty(t, frame.Projectiles)
	require.NotEmpty(t, frame.Hostiles)

	data, err := msgpack.Marshal(frame)
	require.NoError(t, err)

	var got StateFrame
	require.NoError(t, msgpack.Unmarshal(data, &got))
	assert.Equal(t, frame.Tick, got.Tick)
	assert.Equal(t, frame.Pos, got.Pos)
	assert.Len(t, got.Projectiles, len(frame.Projectiles))
	assert.Len(t, got.Hostiles, len(frame.Hostiles))
	assert.Equal(t, "playing", got.HUD.Phase)
	assert.Equal(t, "basic", got.HUD.Weapon)
	assert.Equal(t, 1, got.HUD.Mission)
}

func TestNewEventMsgs(t *testing.T) {
	msgs := NewEventMsgs([]game.Event{
		{Type: game.EventExplosion, Position: game.Vec3{X: 1, Y: 2, Z: 3}, Size: 1.5},
		{Type: game.EventMuzzleFlash, Weapon: game.WeaponPlasma},
		{Type: game.EventPowerUpCollected, PowerUp: game.PowerUpShield},
		{Type: game.EventEffectExpired, Effect: game.EffectRapidFire},
		{Type: game.EventMissionComplete, Mission: 2, Score: 900},
	})
	require.Len(t, msgs, 5)

	assert.Equal(t, "explosion", msgs[0].Type)
	assert.Equal(t, [3]float64{1, 2, 3}, msgs[0].Pos)
	assert.Equal(t, 1.5, msgs[0].Size)
	assert.Empty(t, msgs[0].Weapon)

	assert.Equal(t, "plasma", msgs[1].Weapon)
	assert.Equal(t, "shield", msgs[2].PowerUp)
	assert.Equal(t, "rapidfire", msgs[3].Effect)
	assert.Equal(t, 2, msgs[4].Mission)
	assert.Equal(t, 900, msgs[4].Score)
}
