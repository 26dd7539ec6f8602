// Package transport implements the two processes either side of the
// matching engine actually runs as: a TCP-facing gateway that
// multiplexes many client connections onto one engine connection, and
// the engine's own Unix-socket listener that accepts that single
// gateway connection. Both read the same fixed header-then-body frames
// the protocol package defines.
package transport

import (
	"io"

	"go.uber.org/zap"

	"github.com/tembolo1284/MatchX/protocol"
)

// readFrame performs the two-phase read every connection in this
// package uses: read the fixed header, validate its framing, then read
// exactly the remaining Length-HeaderSize bytes into one contiguous
// buffer starting with the header itself. A header whose version does
// not match protocol.ProtocolVersion is logged and its body drained to
// resynchronize the stream; the loop then reads the next frame rather
// than returning an error that would tear down the connection. An
// oversized frame is handled the same way. A header whose Length is
// smaller than the header itself is returned as an error, since no frame
// boundary can be recovered from it.
func readFrame(r io.Reader, log *zap.Logger) ([]byte, protocol.Header, error) {
	for {
		headerBuf := make([]byte, protocol.HeaderSize)
		if _, err := io.ReadFull(r, headerBuf); err != nil {
			return nil, protocol.Header{}, err
		}

		h, err := protocol.UnmarshalHeader(headerBuf)
		if err != nil {
			return nil, protocol.Header{}, err
		}
		if err := protocol.ValidateFraming(h); err != nil {
			if err != protocol.ErrFrameTooLarge {
				return nil, h, err
			}
			log.Warn("dropping oversized frame", zap.Error(err), zap.Uint32("length", h.Length))
			if _, err := io.CopyN(io.Discard, r, int64(h.Length-protocol.HeaderSize)); err != nil {
				return nil, h, err
			}
			continue
		}

		if h.Version != protocol.ProtocolVersion {
			log.Warn("dropping frame with mismatched protocol version",
				zap.Error(protocol.ErrVersionMismatch),
				zap.Uint8("got", h.Version), zap.Uint8("want", protocol.ProtocolVersion))
			if h.Length > protocol.HeaderSize {
				if _, err := io.CopyN(io.Discard, r, int64(h.Length-protocol.HeaderSize)); err != nil {
					return nil, h, err
				}
			}
			continue
		}

		frame := make([]byte, h.Length)
		copy(frame, headerBuf)
		if h.Length > protocol.HeaderSize {
			if _, err := io.ReadFull(r, frame[protocol.HeaderSize:]); err != nil {
				return nil, h, err
			}
		}
		return frame, h, nil
	}
}
