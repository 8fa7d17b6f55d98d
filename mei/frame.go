package mei

import (
	"fmt"
)

const (
	// FunctionCode is the Modbus function code for encapsulated interface
	// transport, at frame offset 7.
	FunctionCode byte = 43
	// TypeCode is the MEI type for object-dictionary access, at frame offset 8.
	TypeCode byte = 13

	// HeaderSize is the size of a frame without its data bytes. A request or
	// reply declaring N data bytes is exactly HeaderSize+N bytes long.
	HeaderSize = 19
	// MaxDataSize is the maximum number of data bytes a frame may carry.
	MaxDataSize = 4
	// DataOffset is the offset of the first data byte within a frame.
	DataOffset = 19
)

// Frame byte offsets. The remaining offsets (0-4, 6, 10-11, 15-17) are
// reserved and always zero.
const (
	lengthOffset   = 5 // remaining length, always len(frame)-6
	functionOffset = 7
	typeOffset     = 8
	modeOffset     = 9 // 0 for read, 1 for write
	indexHiOffset  = 12
	indexLoOffset  = 13
	subOffset      = 14
	countOffset    = 18
)

// AccessMode selects between reading and writing a device parameter,
// transmitted at frame offset 9.
type AccessMode byte

const (
	// Read requests the value of a parameter. The frame carries no data bytes;
	// its byte count declares how many bytes the reply returns.
	Read AccessMode = 0
	// Write sets the value of a parameter. The frame carries exactly as many
	// data bytes as its byte count declares.
	Write AccessMode = 1
)

// String returns the string representation of the access mode.
func (m AccessMode) String() string {
	switch m {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "unknown"
	}
}

// Address identifies a device parameter in the object dictionary by its
// 16-bit object index and 8-bit sub-index.
type Address struct {
	Index uint16
	Sub   uint8
}

// String returns the address in "index/sub" form, e.g. "0x6041/0".
func (a Address) String() string {
	return fmt.Sprintf("0x%04X/%d", a.Index, a.Sub)
}

// ReplyLen returns the exact length of the reply to a request declaring
// byteCount data bytes. The device echoes the request header and carries
// byteCount data bytes at DataOffset, for both read and write requests.
func ReplyLen(byteCount int) int {
	return HeaderSize + byteCount
}

// BuildFrame encodes a register access into an outbound frame.
//
// byteCount declares how many data bytes are meaningful (0 to MaxDataSize).
// For Read mode payload must be nil; byteCount states how many bytes the
// reply should return. For Write mode payload must be exactly byteCount
// little-endian bytes.
//
// The resulting frame is HeaderSize+len(payload) bytes, with the remaining
// length byte at offset 5 self-computed as len(frame)-6.
func BuildFrame(mode AccessMode, addr Address, byteCount int, payload []byte) ([]byte, error) {
	if byteCount < 0 || byteCount > MaxDataSize {
		return nil, fmt.Errorf("%w: byte count %d out of range [0, %d]", ErrInvalidFrame, byteCount, MaxDataSize)
	}

	switch mode {
	case Read:
		if len(payload) != 0 {
			return nil, fmt.Errorf("%w: read frame must not carry payload, got %d bytes", ErrInvalidFrame, len(payload))
		}
	case Write:
		if len(payload) != byteCount {
			return nil, fmt.Errorf("%w: payload length %d disagrees with byte count %d", ErrInvalidFrame, len(payload), byteCount)
		}
	default:
		return nil, fmt.Errorf("%w: access mode %d", ErrInvalidFrame, mode)
	}

	frame := make([]byte, HeaderSize+len(payload))
	frame[functionOffset] = FunctionCode
	frame[typeOffset] = TypeCode
	frame[modeOffset] = byte(mode)
	frame[indexHiOffset] = byte(addr.Index >> 8)
	frame[indexLoOffset] = byte(addr.Index)
	frame[subOffset] = addr.Sub
	frame[countOffset] = byte(byteCount)
	copy(frame[DataOffset:], payload)

	frame[lengthOffset] = byte(len(frame) - 6)

	return frame, nil
}

// ReadFrame builds a read request for addr expecting byteCount reply bytes.
func ReadFrame(addr Address, byteCount int) ([]byte, error) {
	return BuildFrame(Read, addr, byteCount, nil)
}

// WriteFrame builds a write request for addr carrying the given little-endian
// payload bytes.
func WriteFrame(addr Address, payload []byte) ([]byte, error) {
	return BuildFrame(Write, addr, len(payload), payload)
}
