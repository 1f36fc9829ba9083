package main

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"starfighter/game"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 120
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
	log        zerolog.Logger

	mu      sync.Mutex
	session *Session
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
		log:        hub.log.With().Str("remote", remoteAddr).Logger(),
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("ws error")
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.log.Warn().Msg("rate limit exceeded, disconnecting")
			break
		}

		if msgType == websocket.BinaryMessage {
			if in, ok := decodeBinaryInput(message); ok {
				c.handleInput(in)
			}
			continue
		}
		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error().Err(err).Msg("marshal error")
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message
// Prefixes with 0xFF marker byte so WritePump can distinguish from text
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF // binary marker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

func (c *Client) currentSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// detach leaves the current session without ending it
func (c *Client) detach() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess := c.session
	if sess != nil {
		sess.Game.Detach(c)
		c.session = nil
	}
	return sess
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Debug().Err(err).Msg("unmarshal error")
		return
	}

	switch env.T {
	case MsgHello:
		c.handleHello(env.D)
	case MsgStart:
		c.handleSignal(func(g *Game) error { return g.StartRun() })
	case MsgInput:
		var in ClientInput
		if err := json.Unmarshal(env.D, &in); err != nil {
			return
		}
		c.handleInput(in)
	case MsgUpgrade:
		c.handleUpgrade(env.D)
	case MsgRestart:
		c.handleSignal(func(g *Game) error { return g.RestartRun() })
	case MsgLeave:
		c.handleLeave()
	}
}

func (c *Client) handleHello(data json.RawMessage) {
	var msg HelloMsg
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("malformed hello")
			return
		}
	}
	if c.currentSession() != nil {
		c.sendError("already in a session")
		return
	}

	sess, resumed := c.resume(msg.Token)
	if sess == nil {
		var err error
		sess, err = c.hub.sessions.CreateSession(sanitizeName(msg.Name))
		if err != nil {
			c.sendError(err.Error())
			return
		}
	}

	token, err := c.hub.tokens.Issue(sess.ID, sess.Pilot)
	if err != nil {
		c.log.Error().Err(err).Msg("issuing run token")
		c.sendError("internal error")
		return
	}

	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()

	c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{SID: sess.ID, Token: token, Resumed: resumed}})
	sess.Game.Attach(c)
}

// resume returns the live session named by a valid token
func (c *Client) resume(token string) (*Session, bool) {
	if token == "" {
		return nil, false
	}
	claims, err := c.hub.tokens.Parse(token)
	if err != nil {
		c.log.Debug().Err(err).Msg("rejected run token")
		return nil, false
	}
	sess, err := c.hub.sessions.GetSession(claims.Subject)
	if err != nil {
		return nil, false
	}
	return sess, true
}

func (c *Client) handleInput(in ClientInput) {
	if sess := c.currentSession(); sess != nil {
		sess.Game.HandleInput(in)
	}
}

func (c *Client) handleUpgrade(data json.RawMessage) {
	var msg UpgradeMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("malformed upgrade")
		return
	}
	choice, err := game.ParseUpgradeChoice(msg.Choice)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.handleSignal(func(g *Game) error { return g.Upgrade(choice) })
}

func (c *Client) handleSignal(fn func(*Game) error) {
	sess := c.currentSession()
	if sess == nil {
		c.sendError("not in a session")
		return
	}
	if err := fn(sess.Game); err != nil {
		if !errors.Is(err, game.ErrInvalidTransition) {
			c.log.Error().Err(err).Msg("signal failed")
		}
		c.sendError(err.Error())
	}
}

// handleLeave ends the session for good
func (c *Client) handleLeave() {
	if sess := c.detach(); sess != nil {
		c.hub.sessions.RemoveSession(sess.ID)
	}
}
