package transport

import (
	"go.uber.org/zap"

	"github.com/tembolo1284/MatchX/manager"
	"github.com/tembolo1284/MatchX/protocol"
)

// Dispatch decodes one engine-bound frame by its header type and routes
// it to the matching Manager handler, mirroring main.cpp's
// process_message switch. Unknown or malformed frames are logged and
// dropped; the connection stays open.
func Dispatch(m *manager.Manager, log *zap.Logger, frame []byte, h protocol.Header) {
	switch h.Type {
	case protocol.TypeNewOrder:
		msg, err := protocol.UnmarshalNewOrder(frame)
		if err != nil {
			log.Warn("malformed NEW_ORDER frame", zap.Error(err))
			return
		}
		m.HandleNewOrder(msg)

	case protocol.TypeCancelOrder:
		msg, err := protocol.UnmarshalCancelOrder(frame)
		if err != nil {
			log.Warn("malformed CANCEL_ORDER frame", zap.Error(err))
			return
		}
		m.HandleCancelOrder(msg)

	case protocol.TypeReplaceOrder:
		msg, err := protocol.UnmarshalReplaceOrder(frame)
		if err != nil {
			log.Warn("malformed REPLACE_ORDER frame", zap.Error(err))
			return
		}
		m.HandleReplaceOrder(msg)

	case protocol.TypeHeartbeat:
		// no-op: the transport layer itself keeps the connection alive.

	case protocol.TypeLogon, protocol.TypeLogout:
		// session bookkeeping is handled at the gateway; the engine does
		// not need to track logon state to process orders.

	default:
		log.Warn("unknown message type from gateway", zap.Uint8("type", uint8(h.Type)))
	}
}
