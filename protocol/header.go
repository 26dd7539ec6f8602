package protocol

import "encoding/binary"

// Marshal writes the header in its fixed 16-byte little-endian layout:
// version:u8, type:u8, reserved:u16, length:u32, sequence:u64.
func (h Header) Marshal() []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = h.Version
	buf[1] = uint8(h.Type)
	binary.LittleEndian.PutUint16(buf[2:4], h.Reserved)
	binary.LittleEndian.PutUint32(buf[4:8], h.Length)
	binary.LittleEndian.PutUint64(buf[8:16], h.Sequence)
	return buf
}

// UnmarshalHeader decodes the fixed 16-byte preamble from buf.
func UnmarshalHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, ErrShortBuffer
	}
	return Header{
		Version:  buf[0],
		Type:     MessageType(buf[1]),
		Reserved: binary.LittleEndian.Uint16(buf[2:4]),
		Length:   binary.LittleEndian.Uint32(buf[4:8]),
		Sequence: binary.LittleEndian.Uint64(buf[8:16]),
	}, nil
}

// ValidateFraming enforces the length bounds the transport layer checks
// before reading a body: reject anything larger than MaxFrameSize or
// smaller than the header itself.
func ValidateFraming(h Header) error {
	if h.Length > MaxFrameSize {
		return ErrFrameTooLarge
	}
	if h.Length < HeaderSize {
		return ErrFrameTooSmall
	}
	return nil
}
