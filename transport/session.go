package transport

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one client connection held by the gateway. A reader
// goroutine parses frames off conn and hands them to the gateway's
// shared inbound queue; a separate writer goroutine drains outbound so
// a slow or stalled client can never block the reader, the engine
// connection, or any other session's delivery. A session carries an
// optional user id set by a LOGON frame, which the gateway handles
// itself and never forwards to the engine.
type Session struct {
	ID uuid.UUID

	conn     net.Conn
	outbound chan []byte
	done     chan struct{}
	log      *zap.Logger

	userID atomic.Uint64

	closeOnce sync.Once
}

func newSession(conn net.Conn, log *zap.Logger) *Session {
	return &Session{
		ID:       uuid.New(),
		conn:     conn,
		outbound: make(chan []byte, 256),
		done:     make(chan struct{}),
		log:      log,
	}
}

// UserID returns the user id set by this session's last LOGON frame,
// or 0 if the session has never logged on.
func (s *Session) UserID() uint64 {
	return s.userID.Load()
}

func (s *Session) setUserID(id uint64) {
	s.userID.Store(id)
}

func (s *Session) clearUserID() {
	s.userID.Store(0)
}

// Send queues frame for delivery to this client. If the session's
// outbound queue is already full the frame is dropped rather than
// blocking the broadcaster.
func (s *Session) Send(frame []byte) {
	select {
	case s.outbound <- frame:
	case <-s.done:
	default:
		s.log.Warn("session outbound queue full, dropping frame", zap.String("session", s.ID.String()))
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case frame := <-s.outbound:
			if _, err := s.conn.Write(frame); err != nil {
				s.log.Warn("session write failed", zap.String("session", s.ID.String()), zap.Error(err))
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}
