package dryve

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openmotion/go-dryve/mei"
)

// simDevice is a scriptable D1 stand-in listening on a loopback TCP port.
// It speaks the encapsulated-interface frame protocol: writes are stored and
// echoed, reads answer from the register store, and status word reads walk a
// scripted sequence (repeating its last element).
type simDevice struct {
	t  *testing.T
	ln net.Listener

	mu            sync.Mutex
	registers     map[mei.Address][]byte
	statusSeq     []uint16
	statusIdx     int
	statusReads   int
	modeDelay     int // ModeDisplay reads answering stale before echoing
	controlWrites []uint16
	targetWrites  []int32
	frameCount    int
	closeAfter    int  // close the connection before answering frame N
	shortReply    bool // truncate the next reply and close
}

func newSimDevice(t *testing.T) *simDevice {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	sim := &simDevice{
		t:         t,
		ln:        ln,
		registers: make(map[mei.Address][]byte),
	}

	go sim.serve()
	t.Cleanup(func() { _ = ln.Close() })

	return sim
}

func (s *simDevice) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *simDevice) setStatusSeq(seq ...uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusSeq = seq
	s.statusIdx = 0
}

func (s *simDevice) setRegister(addr mei.Address, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registers[addr] = append([]byte(nil), value...)
}

func (s *simDevice) setModeDelay(polls int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modeDelay = polls
}

func (s *simDevice) setCloseAfter(frames int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeAfter = frames
}

func (s *simDevice) setShortReply() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shortReply = true
}

func (s *simDevice) statusReadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusReads
}

func (s *simDevice) controlWriteLog() []uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint16(nil), s.controlWrites...)
}

func (s *simDevice) targetWriteLog() []int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int32(nil), s.targetWrites...)
}

func (s *simDevice) framesSeen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameCount
}

func (s *simDevice) register(addr mei.Address) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.registers[addr]...)
}

func (s *simDevice) serve() {
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	header := make([]byte, mei.HeaderSize)
	for {
		if _, err := io.ReadFull(conn, header); err != nil {
			return
		}

		count := int(header[18])

		var payload []byte
		if header[9] == byte(mei.Write) {
			payload = make([]byte, count)
			if _, err := io.ReadFull(conn, payload); err != nil {
				return
			}
		}

		reply, short := s.handle(header, payload)
		if reply == nil {
			return
		}
		if short {
			_, _ = conn.Write(reply[:len(reply)-1])
			return
		}
		if _, err := conn.Write(reply); err != nil {
			return
		}
	}
}

func (s *simDevice) handle(header, payload []byte) (reply []byte, short bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frameCount++
	if s.closeAfter > 0 && s.frameCount >= s.closeAfter {
		return nil, false
	}

	addr := mei.Address{
		Index: uint16(header[12])<<8 | uint16(header[13]),
		Sub:   header[14],
	}
	count := int(header[18])

	if header[9] == byte(mei.Write) {
		s.registers[addr] = append([]byte(nil), payload...)

		switch addr {
		case ObjControlWord:
			s.controlWrites = append(s.controlWrites, binary.LittleEndian.Uint16(payload))
		case ObjTargetPosition:
			s.targetWrites = append(s.targetWrites, int32(binary.LittleEndian.Uint32(payload)))
		}

		return s.reply(header, payload), s.shortReply
	}

	var data []byte
	switch addr {
	case ObjStatusWord:
		s.statusReads++
		v := s.nextStatus()
		data = []byte{byte(v), byte(v >> 8)}
	case ObjModeDisplay:
		if s.modeDelay > 0 {
			s.modeDelay--
			data = []byte{0}
		} else {
			data = append([]byte(nil), s.registers[ObjModeOfOperation]...)
		}
	default:
		data = append([]byte(nil), s.registers[addr]...)
	}

	if len(data) < count {
		data = append(data, make([]byte, count-len(data))...)
	}

	return s.reply(header, data[:count]), s.shortReply
}

func (s *simDevice) reply(header, data []byte) []byte {
	reply := append(append([]byte(nil), header...), data...)
	reply[5] = byte(len(reply) - 6)

	return reply
}

func (s *simDevice) nextStatus() uint16 {
	if len(s.statusSeq) == 0 {
		return 0
	}

	v := s.statusSeq[s.statusIdx]
	if s.statusIdx < len(s.statusSeq)-1 {
		s.statusIdx++
	}

	return v
}

// newTestDrive returns a Drive connected to sim with fast poll intervals.
func newTestDrive(t *testing.T, sim *simDevice, opts ...ConnOption) *Drive {
	t.Helper()

	base := []ConnOption{
		WithResponseTimeout(1 * time.Second),
		WithStatusPollInterval(10 * time.Millisecond),
		WithMotionPollInterval(5 * time.Millisecond),
		WithOperationTimeout(2 * time.Second),
	}

	cfg, err := NewConnectionConfig("127.0.0.1", sim.port(), append(base, opts...)...)
	require.NoError(t, err)

	drive, err := NewDrive(cfg)
	require.NoError(t, err)

	require.NoError(t, drive.Connect(context.Background()))
	t.Cleanup(func() { _ = drive.Close() })

	return drive
}
