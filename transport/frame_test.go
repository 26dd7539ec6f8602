package transport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/tembolo1284/MatchX/protocol"
)

func TestReadFrameDecodesHeartbeat(t *testing.T) {
	hb := protocol.HeartbeatMessage{
		Header:    protocol.Header{Version: protocol.ProtocolVersion, Type: protocol.TypeHeartbeat, Length: 0},
		Timestamp: 42,
	}
	hb.Header.Length = uint32(len(hb.Marshal()))

	frame, h, err := readFrame(bytes.NewReader(hb.Marshal()), zap.NewNop())
	assert.Nil(t, err)
	assert.Equal(t, h.Type, protocol.TypeHeartbeat)

	got, err := protocol.UnmarshalHeartbeat(frame)
	assert.Nil(t, err)
	assert.Equal(t, got.Timestamp, uint64(42))
}

// TestReadFrameResyncsPastVersionMismatch drives a stream carrying one
// frame stamped with a version readFrame doesn't understand, followed by
// a well-formed one. The mismatched frame must be logged and its body
// drained, not returned as an error that would tear the connection down;
// the well-formed frame behind it must still be readable afterward.
func TestReadFrameResyncsPastVersionMismatch(t *testing.T) {
	bad := protocol.HeartbeatMessage{
		Header:    protocol.Header{Version: protocol.ProtocolVersion + 1, Type: protocol.TypeHeartbeat},
		Timestamp: 1,
	}
	bad.Header.Length = uint32(len(bad.Marshal()))

	good := protocol.HeartbeatMessage{
		Header:    protocol.Header{Version: protocol.ProtocolVersion, Type: protocol.TypeHeartbeat},
		Timestamp: 2,
	}
	good.Header.Length = uint32(len(good.Marshal()))

	var stream bytes.Buffer
	stream.Write(bad.Marshal())
	stream.Write(good.Marshal())

	frame, h, err := readFrame(&stream, zap.NewNop())
	assert.Nil(t, err)
	assert.Equal(t, h.Version, protocol.ProtocolVersion)

	got, err := protocol.UnmarshalHeartbeat(frame)
	assert.Nil(t, err)
	assert.Equal(t, got.Timestamp, uint64(2))
	assert.Equal(t, stream.Len(), 0)
}
