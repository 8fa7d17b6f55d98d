package dryve

import (
	"encoding/binary"

	"github.com/openmotion/go-dryve/mei"
)

// Canned request frames for the recurring exchanges of the power-state
// sequence. These are plain conveniences over mei.BuildFrame, not a separate
// mechanism; each call returns a fresh frame.

// StatusRequestFrame returns the status word read request.
func StatusRequestFrame() []byte {
	return mustFrame(mei.ReadFrame(ObjStatusWord, 2))
}

// ShutdownFrame returns the control word write commanding shutdown.
func ShutdownFrame() []byte {
	return controlFrame(CtrlShutdown)
}

// SwitchOnFrame returns the control word write commanding switch-on.
func SwitchOnFrame() []byte {
	return controlFrame(CtrlSwitchOn)
}

// EnableOperationFrame returns the control word write commanding
// enable-operation.
func EnableOperationFrame() []byte {
	return controlFrame(CtrlEnableOperation)
}

func controlFrame(value uint16) []byte {
	return mustFrame(mei.WriteFrame(ObjControlWord, le2(value)))
}

// mustFrame panics on a frame build error. It is only used with constant,
// known-valid inputs.
func mustFrame(frame []byte, err error) []byte {
	if err != nil {
		panic(err)
	}

	return frame
}

func le2(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)

	return b
}

func le4(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)

	return b
}
