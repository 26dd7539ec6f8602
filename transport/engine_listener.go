package transport

import (
	"net"
	"os"

	"go.uber.org/zap"

	"github.com/tembolo1284/MatchX/protocol"
)

// EngineListener is the engine side of the IPC channel: a Unix socket
// that accepts exactly one gateway connection at a time, grounded on
// the source's single-client assumption (backlog 1, one client_fd_).
// Every frame it reads is handed to Handler; every frame Handler wants
// sent back rides the same connection out.
type EngineListener struct {
	socketPath string
	handler    func(frame []byte, h protocol.Header)
	log        *zap.Logger

	listener net.Listener
	conn     net.Conn
}

func NewEngineListener(socketPath string, handler func(frame []byte, h protocol.Header), log *zap.Logger) *EngineListener {
	if log == nil {
		log = zap.NewNop()
	}
	return &EngineListener{socketPath: socketPath, handler: handler, log: log}
}

// Start removes any stale socket file, binds, and listens; Serve does
// the accepting. Unlike the gateway's listener, Serve blocks in a loop re-accepting a
// fresh gateway connection whenever the current one drops, since the
// engine process outlives any single gateway.
func (l *EngineListener) Start() error {
	os.Remove(l.socketPath)

	ln, err := net.Listen("unix", l.socketPath)
	if err != nil {
		return err
	}
	l.listener = ln
	l.log.Info("engine IPC listening", zap.String("socket", l.socketPath))
	return nil
}

// Serve blocks, accepting one gateway connection at a time and reading
// frames from it until it disconnects, then waiting for the next one.
// It returns only when the listener itself is closed.
func (l *EngineListener) Serve() error {
	for {
		l.log.Info("waiting for gateway connection")
		conn, err := l.listener.Accept()
		if err != nil {
			return err
		}
		l.conn = conn
		l.log.Info("gateway connected")
		l.readLoop(conn)
	}
}

func (l *EngineListener) readLoop(conn net.Conn) {
	defer conn.Close()
	for {
		frame, h, err := readFrame(conn, l.log)
		if err != nil {
			l.log.Warn("gateway disconnected", zap.Error(err))
			return
		}
		l.handler(frame, h)
	}
}

// Send writes a frame out over the current gateway connection, if any.
// A nil connection (no gateway attached yet) is a silent no-op, mirroring
// the source's is_connected() guard in write_message.
func (l *EngineListener) Send(frame []byte) error {
	if l.conn == nil {
		return nil
	}
	_, err := l.conn.Write(frame)
	return err
}

func (l *EngineListener) Stop() {
	if l.conn != nil {
		l.conn.Close()
	}
	if l.listener != nil {
		l.listener.Close()
	}
	os.Remove(l.socketPath)
}
