package mei

import (
	"fmt"
)

// VerifyReply checks that reply is a structurally valid answer to a request
// with the given mode, address and byte count.
//
// The device echoes the request header in every reply, so a reply must carry
// the function and type codes, the read-write flag, the object index and
// sub-index of the request, declare the requested byte count, and be exactly
// ReplyLen(byteCount) bytes long.
func VerifyReply(reply []byte, mode AccessMode, addr Address, byteCount int) error {
	if len(reply) < HeaderSize {
		return fmt.Errorf("%w: length %d shorter than header", ErrMalformedReply, len(reply))
	}

	if reply[functionOffset] != FunctionCode || reply[typeOffset] != TypeCode {
		return fmt.Errorf("%w: function/type codes %d/%d, want %d/%d",
			ErrMalformedReply, reply[functionOffset], reply[typeOffset], FunctionCode, TypeCode)
	}

	if reply[modeOffset] != byte(mode) {
		return fmt.Errorf("%w: access mode %d, want %s", ErrMalformedReply, reply[modeOffset], mode)
	}

	if reply[indexHiOffset] != byte(addr.Index>>8) || reply[indexLoOffset] != byte(addr.Index) || reply[subOffset] != addr.Sub {
		got := Address{
			Index: uint16(reply[indexHiOffset])<<8 | uint16(reply[indexLoOffset]),
			Sub:   reply[subOffset],
		}
		return fmt.Errorf("%w: address %s, want %s", ErrMalformedReply, got, addr)
	}

	if int(reply[countOffset]) != byteCount {
		return fmt.Errorf("%w: byte count %d, want %d", ErrMalformedReply, reply[countOffset], byteCount)
	}

	if len(reply) != ReplyLen(byteCount) {
		return fmt.Errorf("%w: length %d, want %d", ErrMalformedReply, len(reply), ReplyLen(byteCount))
	}

	return nil
}

// DecodeRegister extracts the little-endian signed integer value of the width
// data bytes at DataOffset of a reply frame.
//
// width must be between 1 and MaxDataSize. The value is sign-extended from
// its most significant bit.
func DecodeRegister(reply []byte, width int) (int64, error) {
	u, err := DecodeUnsigned(reply, width)
	if err != nil {
		return 0, err
	}

	shift := uint(64 - width*8)

	return int64(u<<shift) >> shift, nil
}

// DecodeUnsigned extracts the little-endian unsigned integer value of the
// width data bytes at DataOffset of a reply frame.
func DecodeUnsigned(reply []byte, width int) (uint64, error) {
	if width < 1 || width > MaxDataSize {
		return 0, fmt.Errorf("%w: register width %d out of range [1, %d]", ErrMalformedReply, width, MaxDataSize)
	}

	if len(reply) < DataOffset+width {
		return 0, fmt.Errorf("%w: length %d too short for %d data bytes", ErrMalformedReply, len(reply), width)
	}

	var u uint64
	for i := 0; i < width; i++ {
		u |= uint64(reply[DataOffset+i]) << (8 * i)
	}

	return u, nil
}
