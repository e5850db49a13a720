// internal/server/handlers/websocket.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"flightscout/internal/adapter/events"
	"flightscout/internal/domain/flight"
	"flightscout/internal/service/lookup"
	"flightscout/internal/service/search"
)

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 64 * 1024,
	}
}

// LiveSearchConfig configures the live search endpoint
type LiveSearchConfig struct {
	SubjectPrefix  string
	PageSize       int
	LookupDebounce time.Duration
	AllowedOrigins []string
	Socket         WebSocketConfig
}

// Event kind for lookup results
const eventLookup = "lookup"

// lookupFields are the inputs that get their own debouncer
var lookupFields = map[string]bool{"origin": true, "destination": true}

// inboundMessage is any message a client may send
type inboundMessage struct {
	Type    string          `json:"type"`
	Params  json.RawMessage `json:"params,omitempty"`
	Filters json.RawMessage `json:"filters,omitempty"`
	Page    int             `json:"page,omitempty"`
	Field   string          `json:"field,omitempty"`
	Query   string          `json:"query,omitempty"`
}

// lookupEvent is published when a debounced airport lookup completes
type lookupEvent struct {
	Type    string                 `json:"type"`
	Field   string                 `json:"field"`
	Seq     uint64                 `json:"seq"`
	Query   string                 `json:"query"`
	Options []flight.AirportOption `json:"options"`
}

// searchClient is one live search connection
type searchClient struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	bus     events.Bus
	session *search.Session
	finder  lookup.Finder
	config  LiveSearchConfig
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	debounce  map[string]*lookup.Debouncer
	sub       events.Subscription
	closeOnce sync.Once
}

// SearchWebSocketHandler serves live search sessions. Each connection gets a
// session whose events are published on the bus and relayed back to the
// socket.
func SearchWebSocketHandler(bus events.Bus, searcher flight.Searcher, finder lookup.Finder, cfg LiveSearchConfig) http.HandlerFunc {
	if cfg.Socket == (WebSocketConfig{}) {
		cfg.Socket = DefaultWebSocketConfig()
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "search"
	}
	if cfg.LookupDebounce <= 0 {
		cfg.LookupDebounce = lookup.DefaultConfig().Debounce
	}

	origins := cors.New(cors.Options{AllowedOrigins: cfg.AllowedOrigins})
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Non-browser clients send no Origin.
			if r.Header.Get("Origin") == "" {
				return true
			}
			return origins.OriginAllowed(r)
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("failed to upgrade to WebSocket", "error", err)
			return
		}

		id := uuid.NewString()
		logger := slog.Default().With("session", id)
		ctx, cancel := context.WithCancel(context.Background())

		client := &searchClient{
			id:       id,
			conn:     conn,
			send:     make(chan []byte, 64),
			done:     make(chan struct{}),
			bus:      bus,
			finder:   finder,
			config:   cfg,
			logger:   logger,
			ctx:      ctx,
			cancel:   cancel,
			debounce: make(map[string]*lookup.Debouncer),
		}
		client.session = search.NewSession(id, searcher, bus, logger, search.SessionConfig{
			SubjectPrefix: cfg.SubjectPrefix,
			PageSize:      cfg.PageSize,
		})

		if err := client.subscribe(); err != nil {
			logger.Error("failed to subscribe to session events", "error", err)
			client.closeConnection()
			return
		}

		go client.writePump()
		go client.readPump()

		client.reply(map[string]interface{}{
			"type":      "welcome",
			"sessionId": id,
			"filters":   client.session.Filters(),
			"time":      time.Now(),
		})

		logger.Info("live search connected")
	}
}

// subscribe relays every event of this session to the socket
func (c *searchClient) subscribe() error {
	sub, err := c.bus.Subscribe(events.Subject(c.config.SubjectPrefix, c.id, ">"), func(subject string, data []byte) {
		c.enqueue(data)
	})
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()
	return nil
}

// enqueue hands data to the write pump without blocking the publisher
func (c *searchClient) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.logger.Warn("dropping event for slow client")
	}
}

func (c *searchClient) reply(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("failed to encode reply", "error", err)
		return
	}
	c.enqueue(data)
}

func (c *searchClient) invalid(msgType string, details ...string) {
	c.reply(map[string]interface{}{
		"type":    "invalid",
		"request": msgType,
		"errors":  details,
	})
}

// readPump reads client messages until the connection fails
func (c *searchClient) readPump() {
	config := c.config.Socket

	defer c.closeConnection()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket error", "error", err)
			}
			return
		}
		c.processIncomingMessage(message)
	}
}

// writePump writes queued events and keeps the connection alive with pings
func (c *searchClient) writePump() {
	config := c.config.Socket
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processIncomingMessage dispatches a client message by type
func (c *searchClient) processIncomingMessage(message []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.invalid("", "message is not valid JSON")
		return
	}

	switch msg.Type {
	case "search":
		c.handleSearch(msg)
	case "filters":
		c.handleFilters(msg)
	case "page":
		c.handlePage(msg)
	case "lookup":
		c.handleLookup(msg)
	default:
		c.invalid(msg.Type, "unknown message type")
	}
}

func (c *searchClient) handleSearch(msg inboundMessage) {
	params, violations, err := DecodeSearchParams(msg.Params)
	if err != nil {
		c.invalid(msg.Type, err.Error())
		return
	}
	if len(violations) > 0 {
		c.invalid(msg.Type, violations...)
		return
	}

	var filters *flight.FilterState
	if len(msg.Filters) > 0 {
		decoded, violations, err := DecodeFilterState(msg.Filters)
		if err != nil {
			c.invalid(msg.Type, err.Error())
			return
		}
		if len(violations) > 0 {
			c.invalid(msg.Type, violations...)
			return
		}
		filters = &decoded
	}

	// Begun on the read loop so message order decides which run is latest.
	run := c.session.BeginSubmit(params, filters)
	go c.run(func() error { return run.Execute(c.ctx) })
}

func (c *searchClient) handleFilters(msg inboundMessage) {
	filters, violations, err := DecodeFilterState(msg.Filters)
	if err != nil {
		c.invalid(msg.Type, err.Error())
		return
	}
	if len(violations) > 0 {
		c.invalid(msg.Type, violations...)
		return
	}
	run := c.session.BeginFilters(filters)
	if run == nil {
		return
	}
	go c.run(func() error { return run.Execute(c.ctx) })
}

func (c *searchClient) handlePage(msg inboundMessage) {
	if err := c.session.SetPage(msg.Page); err != nil {
		c.invalid(msg.Type, err.Error())
	}
}

func (c *searchClient) handleLookup(msg inboundMessage) {
	if !lookupFields[msg.Field] {
		c.invalid(msg.Type, "field must be origin or destination")
		return
	}

	c.mu.Lock()
	d, ok := c.debounce[msg.Field]
	if !ok {
		field := msg.Field
		d = lookup.NewDebouncer(c.ctx, c.config.LookupDebounce, c.finder, func(r lookup.Result) {
			c.publishLookup(field, r)
		})
		c.debounce[field] = d
	}
	c.mu.Unlock()

	d.Submit(msg.Query)
}

func (c *searchClient) publishLookup(field string, r lookup.Result) {
	data, err := json.Marshal(lookupEvent{
		Type:    eventLookup,
		Field:   field,
		Seq:     r.Seq,
		Query:   r.Query,
		Options: r.Options,
	})
	if err != nil {
		c.logger.Error("failed to encode lookup", "error", err)
		return
	}
	if err := c.bus.Publish(c.session.Subject(eventLookup), data); err != nil {
		c.logger.Error("failed to publish lookup", "error", err)
	}
}

// run executes a session operation. Failures were already published to the
// client, so only unexpected ones are logged here.
func (c *searchClient) run(op func() error) {
	err := op()
	var searchErr *flight.SearchError
	switch {
	case err == nil, errors.Is(err, search.ErrSuperseded), errors.As(err, &searchErr):
	case errors.Is(err, context.Canceled):
	default:
		c.logger.Error("live search failed", "error", err)
	}
}

// closeConnection releases the subscription, debouncers and socket once
func (c *searchClient) closeConnection() {
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.done)

		c.mu.Lock()
		if c.sub != nil {
			c.sub.Unsubscribe()
		}
		for _, d := range c.debounce {
			d.Stop()
		}
		c.mu.Unlock()

		c.conn.Close()
		c.logger.Info("live search disconnected")
	})
}
