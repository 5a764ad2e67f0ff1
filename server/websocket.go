package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// isValidOrigin checks if the origin is allowed to connect
func isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No origin header - could be a non-browser client
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		log.Warn().Str("origin", origin).Msg("invalid origin URL")
		return false
	}

	// Allow same-origin connections
	if r.Host == originURL.Host {
		return true
	}

	// Allow localhost connections for development
	if strings.HasPrefix(originURL.Host, "localhost:") ||
		strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
		originURL.Host == "localhost" ||
		originURL.Host == "127.0.0.1" {
		return true
	}

	log.Warn().Str("origin", origin).Msg("rejected websocket connection")
	return false
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       isValidOrigin,
	EnableCompression: true, // Enable per-message deflate compression
}

// Message types
const (
	MsgTypeUpdate   = "update"
	MsgTypeControls = "controls"
	MsgTypeBeacon   = "beacon"
	MsgTypeError    = "error"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client represents a connected viewer or commander
type Client struct {
	ID     int
	conn   *websocket.Conn
	send   chan ServerMessage
	server *Server
}

// Server streams the simulation to clients and applies their commands
type Server struct {
	mu         sync.RWMutex
	clients    map[int]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan ServerMessage
	nextID     int

	simMu    sync.Mutex
	sim      *Sim
	interval time.Duration
	stopped  bool // Guarded by simMu

	done     chan struct{}
	stopOnce sync.Once
	log      zerolog.Logger
}

// NewServer creates a server that steps sim every interval
func NewServer(sim *Sim, interval time.Duration, logger zerolog.Logger) *Server {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Server{
		clients:    make(map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan ServerMessage, 256),
		sim:        sim,
		interval:   interval,
		done:       make(chan struct{}),
		log:        logger.With().Str("component", "server").Logger(),
	}
}

// Run starts the server main loop and returns after Shutdown
func (s *Server) Run() {
	// Start game loop
	go s.gameLoop()

	// Handle client events
	for {
		select {
		case <-s.done:
			s.mu.Lock()
			for id, client := range s.clients {
				delete(s.clients, id)
				close(client.send)
			}
			s.mu.Unlock()
			return

		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			s.log.Info().Int("client", client.ID).Msg("client connected")

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.ID]; ok {
				delete(s.clients, client.ID)
				close(client.send)
			}
			s.mu.Unlock()
			s.log.Info().Int("client", client.ID).Msg("client disconnected")

		case message := <-s.broadcast:
			s.mu.RLock()
			for _, client := range s.clients {
				select {
				case client.send <- message:
					// Successfully sent
				default:
					// Client send channel is full, skip this message
					s.log.Warn().Int("client", client.ID).Msg("send buffer full, skipping broadcast")
				}
			}
			s.mu.RUnlock()
		}
	}
}

// Shutdown stops the game loop and disconnects all clients. No simulation
// step runs after it returns.
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.simMu.Lock()
		s.stopped = true
		s.simMu.Unlock()
	})
}

// gameLoop runs the simulation at a fixed rate
func (s *Server) gameLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.updateGame()
			s.sendGameState()
		}
	}
}

// updateGame advances the simulation by one step
func (s *Server) updateGame() {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	if s.stopped {
		return
	}
	s.sim.Step(context.Background())
}

// withSim runs fn while holding the simulation lock
func (s *Server) withSim(fn func(*Sim) error) error {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	return fn(s.sim)
}

func (s *Server) sendGameState() {
	s.simMu.Lock()
	frame := s.sim.Snapshot()
	s.simMu.Unlock()

	select {
	case s.broadcast <- ServerMessage{Type: MsgTypeUpdate, Data: frame}:
	case <-s.done:
	}
}

// HandleShips returns the state of every live ship
func (s *Server) HandleShips(w http.ResponseWriter, r *http.Request) {
	// Enable CORS for cross-origin requests
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	s.simMu.Lock()
	ships := s.sim.Ships()
	tick := s.sim.Tick()
	s.simMu.Unlock()

	response := map[string]interface{}{
		"tick":  tick,
		"total": len(ships),
		"ships": ships,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.log.Error().Err(err).Msg("encoding ships response")
	}
}

// HandleWebSocket handles WebSocket connections
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade error")
		return
	}

	s.mu.Lock()
	clientID := s.nextID
	s.nextID++
	s.mu.Unlock()

	client := &Client{
		ID:     clientID,
		conn:   conn,
		send:   make(chan ServerMessage, 256),
		server: s,
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump handles incoming messages from the client
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg ClientMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.log.Warn().Err(err).Int("client", c.ID).Msg("websocket error")
			}
			break
		}

		c.handleMessage(msg)
	}
}

// writePump sends messages to the client
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reply queues a message for this client only
func (c *Client) reply(msg ServerMessage) {
	select {
	case c.send <- msg:
	default:
		c.server.log.Warn().Int("client", c.ID).Str("type", msg.Type).Msg("send buffer full, dropping reply")
	}
}

// handleMessage processes a message from the client
func (c *Client) handleMessage(msg ClientMessage) {
	// Recover from any panic to prevent disconnection
	defer func() {
		if r := recover(); r != nil {
			c.server.log.Error().Int("client", c.ID).Str("type", msg.Type).Interface("panic", r).Msg("panic in handleMessage")
		}
	}()

	var err error
	switch msg.Type {
	case MsgTypeControls:
		err = c.handleControls(msg.Data)
	case MsgTypeBeacon:
		err = c.handleBeacon(msg.Data)
	default:
		err = errUnknownMessage(msg.Type)
	}
	if err != nil {
		c.server.log.Debug().Err(err).Int("client", c.ID).Str("type", msg.Type).Msg("command rejected")
		c.reply(ServerMessage{Type: MsgTypeError, Data: map[string]string{"type": msg.Type, "error": err.Error()}})
	}
}
