package transport

import (
	"net"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tembolo1284/MatchX/protocol"
)

// GatewayServer multiplexes many client connections onto a single
// engine connection: every client's inbound frames land on one shared
// queue to the engine, and every frame the engine emits is broadcast to
// all connected clients, whatever user id a session has logged on with.
// Apart from LOGON frames, which it decodes itself, the gateway never
// inspects a frame's payload.
type GatewayServer struct {
	listenAddr string
	engineAddr string

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	toEngine chan []byte

	listener net.Listener
	engine   net.Conn

	done      chan struct{}
	closeOnce sync.Once

	log *zap.Logger
}

func NewGatewayServer(listenAddr, engineSocketPath string, log *zap.Logger) *GatewayServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &GatewayServer{
		listenAddr: listenAddr,
		engineAddr: engineSocketPath,
		sessions:   make(map[uuid.UUID]*Session),
		toEngine:   make(chan []byte, 1024),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Done closes once the engine connection is lost. Losing the engine is
// fatal for the gateway process: cmd/gateway selects on Done() alongside
// its OS-signal channel and exits non-zero when it fires.
func (g *GatewayServer) Done() <-chan struct{} {
	return g.done
}

func (g *GatewayServer) markDone() {
	g.closeOnce.Do(func() { close(g.done) })
}

// Start connects to the engine before opening the client listener: a
// gateway with nowhere to forward client traffic should refuse
// connections rather than accept and silently queue them.
func (g *GatewayServer) Start() error {
	conn, err := net.Dial("unix", g.engineAddr)
	if err != nil {
		return err
	}
	g.engine = conn

	ln, err := net.Listen("tcp", g.listenAddr)
	if err != nil {
		conn.Close()
		return err
	}
	g.listener = ln

	go g.engineReadLoop()
	go g.engineWriteLoop()
	go g.acceptLoop()

	g.log.Info("gateway listening", zap.String("addr", g.listenAddr), zap.String("engine", g.engineAddr))
	return nil
}

func (g *GatewayServer) Stop() {
	if g.listener != nil {
		g.listener.Close()
	}
	if g.engine != nil {
		g.engine.Close()
	}

	g.mu.Lock()
	for _, s := range g.sessions {
		s.Close()
	}
	g.sessions = make(map[uuid.UUID]*Session)
	g.mu.Unlock()
}

func (g *GatewayServer) SessionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.sessions)
}

func (g *GatewayServer) acceptLoop() {
	for {
		conn, err := g.listener.Accept()
		if err != nil {
			return
		}
		g.addSession(conn)
	}
}

func (g *GatewayServer) addSession(conn net.Conn) {
	s := newSession(conn, g.log)

	g.mu.Lock()
	g.sessions[s.ID] = s
	g.mu.Unlock()

	g.log.Info("client connected", zap.String("session", s.ID.String()), zap.String("remote", conn.RemoteAddr().String()))

	go s.writeLoop()
	go g.clientReadLoop(s)
}

func (g *GatewayServer) removeSession(s *Session) {
	g.mu.Lock()
	delete(g.sessions, s.ID)
	g.mu.Unlock()
	s.Close()
	g.log.Info("client disconnected", zap.String("session", s.ID.String()))
}

func (g *GatewayServer) clientReadLoop(s *Session) {
	defer g.removeSession(s)
	for {
		frame, h, err := readFrame(s.conn, g.log)
		if err != nil {
			return
		}

		switch h.Type {
		case protocol.TypeLogon:
			g.handleLogon(s, frame)
			continue
		case protocol.TypeLogout:
			s.clearUserID()
			g.log.Info("client logged out", zap.String("session", s.ID.String()))
			continue
		}

		select {
		case g.toEngine <- frame:
		case <-s.done:
			return
		}
	}
}

// handleLogon tags s with the user id carried on a LOGON frame. LOGON
// is session bookkeeping the gateway owns outright; it never reaches
// the engine.
func (g *GatewayServer) handleLogon(s *Session, frame []byte) {
	logon, err := protocol.UnmarshalLogon(frame)
	if err != nil {
		g.log.Warn("malformed logon frame", zap.String("session", s.ID.String()), zap.Error(err))
		return
	}
	s.setUserID(logon.UserID)
	g.log.Info("client logged on", zap.String("session", s.ID.String()), zap.Uint64("user_id", logon.UserID))
}

// engineWriteLoop and engineReadLoop both treat the engine connection as
// the gateway's lifeline: either one failing marks the gateway done, so
// cmd/gateway can exit non-zero rather than keep accepting client traffic
// with nowhere to forward it.
func (g *GatewayServer) engineWriteLoop() {
	for frame := range g.toEngine {
		if _, err := g.engine.Write(frame); err != nil {
			g.log.Error("failed to forward frame to engine", zap.Error(err))
			g.markDone()
			return
		}
	}
}

func (g *GatewayServer) engineReadLoop() {
	for {
		frame, _, err := readFrame(g.engine, g.log)
		if err != nil {
			g.log.Error("lost connection to engine", zap.Error(err))
			g.markDone()
			return
		}
		g.broadcast(frame)
	}
}

func (g *GatewayServer) broadcast(frame []byte) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, s := range g.sessions {
		s.Send(frame)
	}
}
