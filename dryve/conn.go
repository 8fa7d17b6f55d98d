package dryve

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/openmotion/go-dryve/logger"
	"github.com/openmotion/go-dryve/mei"
)

// ProgressEvent describes one poll iteration of a long-running operation.
// Handlers registered with OnProgress receive an event per status poll,
// allowing a caller to display progress during homing and moves.
type ProgressEvent struct {
	// Operation names the operation being polled, e.g. "shutdown", "homing", "move".
	Operation string
	// Attempt is the 1-based poll iteration count.
	Attempt int
	// Status is the status word the device reported on this iteration.
	Status StatusWord
}

// ProgressHandler is invoked for each poll iteration of a long-running
// operation.
//
// Note: handlers are invoked synchronously from the polling loop. Take care
// with long-running implementations.
type ProgressHandler func(ev ProgressEvent)

// Drive represents one D1 controller reached over a single TCP connection.
//
// The connection is exclusively owned: all register exchanges run in strict
// request/response alternation under an internal mutex, so a Drive is safe
// for concurrent use, with callers serialized per exchange.
type Drive struct {
	cfg    *ConnectionConfig
	logger logger.Logger

	conn      net.Conn
	connMutex sync.Mutex // serializes the request/response exchange

	handlerID atomic.Uint64
	handlers  *xsync.MapOf[uint64, ProgressHandler]

	metrics DriveMetrics
}

// NewDrive creates a Drive for the controller described by cfg.
// The TCP connection is not established until Connect is called.
func NewDrive(cfg *ConnectionConfig) (*Drive, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	return &Drive{
		cfg:      cfg,
		logger:   cfg.Logger(),
		handlers: xsync.NewMapOf[uint64, ProgressHandler](),
	}, nil
}

// Connect establishes the TCP connection to the controller.
// It is an error to connect an already connected Drive.
func (d *Drive) Connect(ctx context.Context) error {
	d.connMutex.Lock()
	defer d.connMutex.Unlock()

	if d.conn != nil {
		return fmt.Errorf("drive is already connected to %s", d.conn.RemoteAddr())
	}

	addr := net.JoinHostPort(d.cfg.Host(), strconv.Itoa(d.cfg.Port()))
	dialer := net.Dialer{Timeout: d.cfg.ConnectTimeout()}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}

	d.conn = conn
	d.logger.Info("connected to drive", "addr", addr)

	return nil
}

// Close closes the TCP connection. The Drive cannot be reused afterwards;
// there is no reconnection.
func (d *Drive) Close() error {
	d.connMutex.Lock()
	defer d.connMutex.Unlock()

	if d.conn == nil {
		return nil
	}

	err := d.conn.Close()
	d.conn = nil
	d.logger.Info("drive connection closed")

	return err
}

// Metrics returns the drive's atomic metrics.
func (d *Drive) Metrics() *DriveMetrics {
	return &d.metrics
}

// OnProgress registers a handler invoked on each poll iteration of
// long-running operations. It returns an id for RemoveProgress.
func (d *Drive) OnProgress(handler ProgressHandler) uint64 {
	id := d.handlerID.Add(1)
	d.handlers.Store(id, handler)

	return id
}

// RemoveProgress unregisters a handler previously added with OnProgress.
func (d *Drive) RemoveProgress(id uint64) {
	d.handlers.Delete(id)
}

func (d *Drive) notifyProgress(ev ProgressEvent) {
	d.handlers.Range(func(_ uint64, handler ProgressHandler) bool {
		handler(ev)
		return true
	})
}

// SendCommand writes frame to the connection and blocks until replyLen reply
// bytes are read in full, under the configured response timeout.
//
// Most callers should use the register-level operations instead; SendCommand
// exists for raw access to parameters this package does not model.
func (d *Drive) SendCommand(ctx context.Context, frame []byte, replyLen int) ([]byte, error) {
	return d.sendCommand(ctx, frame, replyLen)
}

// sendCommand performs one request/response exchange. The connection mutex
// spans the whole exchange because the wire protocol has no request
// correlation: out-of-order replies cannot be disambiguated.
//
// Cancellation is checked before the exchange only; a started exchange runs
// to completion so the reply is drained and the connection stays usable.
func (d *Drive) sendCommand(ctx context.Context, frame []byte, replyLen int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.connMutex.Lock()
	defer d.connMutex.Unlock()

	if d.conn == nil {
		return nil, ErrNotConnected
	}

	timeout := d.cfg.ResponseTimeout()

	if err := d.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("set write deadline: %w", err)
	}

	d.metrics.incRequestSendCount()

	if _, err := d.conn.Write(frame); err != nil {
		d.metrics.incTransportErrCount()
		return nil, fmt.Errorf("%w: write frame: %w", ErrConnClosed, err)
	}

	if err := d.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}

	reply := make([]byte, replyLen)
	if _, err := io.ReadFull(d.conn, reply); err != nil {
		// a short read means the stream closed mid-reply
		d.metrics.incTransportErrCount()
		return nil, fmt.Errorf("%w: read reply: %w", ErrConnClosed, err)
	}

	d.metrics.incReplyRecvCount()

	return reply, nil
}

// readRegister reads the width-byte little-endian signed value of addr.
func (d *Drive) readRegister(ctx context.Context, addr mei.Address, width int) (int64, error) {
	frame, err := mei.ReadFrame(addr, width)
	if err != nil {
		return 0, err
	}

	reply, err := d.sendCommand(ctx, frame, mei.ReplyLen(width))
	if err != nil {
		return 0, err
	}

	if err := mei.VerifyReply(reply, mei.Read, addr, width); err != nil {
		return 0, fmt.Errorf("read %s: %w", addr, err)
	}

	return mei.DecodeRegister(reply, width)
}

// writeRegister writes the little-endian payload bytes to addr and verifies
// the device's echo. A write is fire-and-forget beyond the echo check; only
// subsequent status reads are ever retried.
func (d *Drive) writeRegister(ctx context.Context, addr mei.Address, payload []byte) error {
	frame, err := mei.WriteFrame(addr, payload)
	if err != nil {
		return err
	}

	reply, err := d.sendCommand(ctx, frame, mei.ReplyLen(len(payload)))
	if err != nil {
		return err
	}

	if err := mei.VerifyReply(reply, mei.Write, addr, len(payload)); err != nil {
		return fmt.Errorf("write %s: %w", addr, err)
	}

	return nil
}

// writeControl writes a control word value.
func (d *Drive) writeControl(ctx context.Context, value uint16) error {
	return d.writeRegister(ctx, ObjControlWord, le2(value))
}

// readStatusWord reads and decodes the status word.
func (d *Drive) readStatusWord(ctx context.Context) (StatusWord, error) {
	reply, err := d.sendCommand(ctx, StatusRequestFrame(), mei.ReplyLen(2))
	if err != nil {
		return 0, err
	}

	if err := mei.VerifyReply(reply, mei.Read, ObjStatusWord, 2); err != nil {
		return 0, err
	}

	val, err := mei.DecodeUnsigned(reply, 2)
	if err != nil {
		return 0, err
	}

	return StatusWord(val), nil
}
