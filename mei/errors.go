package mei

import "errors"

var (
	// ErrInvalidFrame indicates that a frame could not be built because the
	// encode inputs are inconsistent (byte count out of range, or payload
	// length disagreeing with the declared byte count).
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrMalformedReply indicates that a reply frame is too short or does not
	// echo the request header fields it is required to echo.
	ErrMalformedReply = errors.New("malformed reply")
)
