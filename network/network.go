package network

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"cheesechase/protocol"
	"cheesechase/room"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 1 << 16
)

var (
	errConnClosed    = errors.New("connection closed")
	errSendQueueFull = errors.New("send queue full")
)

type Options struct {
	AllowedOrigin string // frontend URL whose scheme and host may connect, or "*" for any
	FrontendURL   string // encoded by /qr.png
	Logger        *log.Logger
}

// Server bridges websocket clients and a room.
type Server struct {
	room     *room.Room
	opts     Options
	origin   string // scheme://host form of AllowedOrigin
	upgrader websocket.Upgrader
	log      *log.Logger
}

func NewServer(r *room.Room, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		room: r,
		opts:   opts,
		origin: originOf(opts.AllowedOrigin),
		log:    logger.With("component", "network"),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || s.opts.AllowedOrigin == "*" {
		return true
	}
	return strings.EqualFold(originOf(origin), s.origin)
}

// originOf reduces a URL to the scheme://host form browsers send in Origin.
func originOf(raw string) string {
	if raw == "*" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimRight(raw, "/")
	}
	return u.Scheme + "://" + u.Host
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	format, err := protocol.ParseFormat(r.URL.Query().Get("enc"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Upgrade HTTP -> WebSocket
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := newWSConn(uuid.NewString(), conn, format)
	if !s.room.Post(room.Connect{ConnID: c.id, Conn: c}) {
		_ = conn.Close()
		return
	}
	s.log.Debug("client connected", "conn", c.id, "remote", r.RemoteAddr, "format", format)

	go c.writePump()
	s.readPump(c)
}

// readPump runs on the handler goroutine until the socket fails, then
// reports the disconnect to the room.
func (s *Server) readPump(c *wsConn) {
	defer func() {
		s.room.Post(room.Leave{ConnID: c.id})
		_ = c.Close()
		s.log.Debug("client disconnected", "conn", c.id)
	}()

	// Basic timeouts + pong handling (keeps connections healthy)
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("read failed", "conn", c.id, "err", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		env, err := c.format.DecodeEnvelope(msg)
		if err != nil {
			s.log.Debug("discarding malformed frame", "conn", c.id, "err", err)
			continue
		}
		cmd, err := decodeCommand(c.id, env)
		if err != nil {
			s.log.Debug("discarding message", "conn", c.id, "type", env.T, "err", err)
			continue
		}
		if !s.room.Post(cmd) {
			return
		}
	}
}

// wsConn implements room.Conn. Send only enqueues; writePump owns the socket writes.
type wsConn struct {
	id        string
	conn      *websocket.Conn
	format    protocol.Format
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newWSConn(id string, conn *websocket.Conn, format protocol.Format) *wsConn {
	return &wsConn{
		id:     id,
		conn:   conn,
		format: format,
		send:   make(chan []byte, protocol.SendQueueDepth),
		done:   make(chan struct{}),
	}
}

func (c *wsConn) Send(b []byte) error {
	select {
	case <-c.done:
		return errConnClosed
	default:
	}
	select {
	case c.send <- b:
		return nil
	default:
		return errSendQueueFull
	}
}

func (c *wsConn) Format() protocol.Format {
	return c.format
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	msgType := websocket.TextMessage
	if c.format.Binary() {
		msgType = websocket.BinaryMessage
	}

	for {
		select {
		case b := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(msgType, b); err != nil {
				_ = c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}
		case <-c.done:
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		}
	}
}
