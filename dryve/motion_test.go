package dryve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMode_PollsDisplayUntilEcho(t *testing.T) {
	sim := newSimDevice(t)
	// the display register lags one poll behind the mode write
	sim.setModeDelay(1)
	drive := newTestDrive(t, sim)

	require.NoError(t, drive.SetMode(context.Background(), ModeProfilePosition))

	assert.Equal(t, []byte{byte(ModeProfilePosition)}, sim.register(ObjModeOfOperation))
}

func TestSetMode_Timeout(t *testing.T) {
	sim := newSimDevice(t)
	// display never catches up
	sim.setModeDelay(1 << 20)
	drive := newTestDrive(t, sim, WithOperationTimeout(100*time.Millisecond))

	err := drive.SetMode(context.Background(), ModeHoming)
	require.ErrorIs(t, err, ErrOperationTimedOut)
}

func TestSetFeedrate(t *testing.T) {
	sim := newSimDevice(t)
	drive := newTestDrive(t, sim)

	require.NoError(t, drive.SetFeedrate(context.Background(), 6000))

	assert.Equal(t, []byte{0x70, 0x17}, sim.register(ObjFeedRate))
	assert.Equal(t, []byte{1}, sim.register(ObjFeedRateApply))
}

func TestMove_TargetReached(t *testing.T) {
	sim := newSimDevice(t)
	// target reached on the third poll
	sim.setStatusSeq(0x0227, 0x0227, 0x0627)
	sim.setRegister(ObjActualPosition, le4(200000))
	sim.setRegister(ObjActualVelocity, le4(0))
	drive := newTestDrive(t, sim)

	pos, vel, err := drive.Move(context.Background(), 1000, 500, 200000)
	require.NoError(t, err)

	assert.Equal(t, int32(200000), pos)
	assert.Equal(t, int32(0), vel)
	assert.Equal(t, 3, sim.statusReadCount())
	assert.Equal(t, []int32{200000}, sim.targetWriteLog())

	// rising-edge trigger then the final enable-operation
	assert.Equal(t, []uint16{CtrlStartMotion, CtrlEnableOperation, CtrlEnableOperation}, sim.controlWriteLog())

	assert.Equal(t, []byte{0xE8, 0x03, 0x00, 0x00}, sim.register(ObjProfileVelocity))
	assert.Equal(t, []byte{0xF4, 0x01, 0x00, 0x00}, sim.register(ObjProfileAcceleration))
	assert.Equal(t, uint64(1), drive.Metrics().MoveCount.Load())
}

func TestMove_NegativeTargetRoundTrips(t *testing.T) {
	sim := newSimDevice(t)
	sim.setStatusSeq(0x0627)
	negPos := int32(-12345)
	sim.setRegister(ObjActualPosition, le4(uint32(negPos)))
	sim.setRegister(ObjActualVelocity, le4(0))
	drive := newTestDrive(t, sim)

	pos, _, err := drive.Move(context.Background(), 1000, 500, -12345)
	require.NoError(t, err)

	assert.Equal(t, int32(-12345), pos)
	assert.Equal(t, []int32{-12345}, sim.targetWriteLog())
}

func TestMove_Timeout(t *testing.T) {
	sim := newSimDevice(t)
	// homing-complete word must not end a move wait, nor any busy word
	sim.setStatusSeq(0x1627)
	drive := newTestDrive(t, sim, WithOperationTimeout(100*time.Millisecond))

	_, _, err := drive.Move(context.Background(), 1000, 500, 1000)
	require.ErrorIs(t, err, ErrOperationTimedOut)
}

func TestHome(t *testing.T) {
	sim := newSimDevice(t)
	// 0x0627 is target-reached, not homing-complete: it must be ignored
	sim.setStatusSeq(0x0627, 0x1627)
	drive := newTestDrive(t, sim)

	require.NoError(t, drive.Home(context.Background(), HomeLSN, 3000, 100, 500))

	assert.Equal(t, 2, sim.statusReadCount())
	assert.Equal(t, []byte{17}, sim.register(ObjHomingMethod))
	assert.Equal(t, le2(6000), sim.register(ObjFeedRate))
	assert.Equal(t, []byte{1}, sim.register(ObjFeedRateApply))
	assert.Equal(t, le2(3000), sim.register(ObjHomingSpeedSwitch))
	assert.Equal(t, le2(100), sim.register(ObjHomingSpeedZero))
	assert.Equal(t, le2(500), sim.register(ObjHomingAcceleration))
	assert.Equal(t, []byte{byte(ModeHoming)}, sim.register(ObjModeOfOperation))
	assert.Equal(t, []uint16{CtrlStartMotion, CtrlEnableOperation, CtrlEnableOperation}, sim.controlWriteLog())
	assert.Equal(t, uint64(1), drive.Metrics().HomeCount.Load())
}

func TestHome_MethodCodes(t *testing.T) {
	tests := []struct {
		method HomingMethod
		code   byte
	}{
		{method: HomeLSN, code: 17},
		{method: HomeLSP, code: 18},
		{method: HomeIEN, code: 33},
		{method: HomeIEP, code: 34},
		{method: HomeSCP, code: 37},
		{method: HomeAAF, code: 255},
	}

	for _, test := range tests {
		t.Run(string(test.method), func(t *testing.T) {
			sim := newSimDevice(t)
			sim.setStatusSeq(0x1627)
			drive := newTestDrive(t, sim)

			require.NoError(t, drive.Home(context.Background(), test.method, 3000, 100, 500))
			assert.Equal(t, []byte{test.code}, sim.register(ObjHomingMethod))
		})
	}
}

func TestHome_UnknownMethod(t *testing.T) {
	sim := newSimDevice(t)
	drive := newTestDrive(t, sim)

	err := drive.Home(context.Background(), "XYZ", 3000, 100, 500)
	require.ErrorIs(t, err, ErrUnknownHomingMethod)

	// the method is resolved before any frame goes out
	assert.Equal(t, 0, sim.framesSeen())
}

func TestStaggeredMove(t *testing.T) {
	sim := newSimDevice(t)
	sim.setStatusSeq(0x0627)
	sim.setRegister(ObjActualPosition, le4(0))
	sim.setRegister(ObjActualVelocity, le4(0))
	drive := newTestDrive(t, sim)

	err := drive.StaggeredMove(context.Background(), 1000, 500, 1000, 2, 500, time.Millisecond, true)
	require.NoError(t, err)

	// start, two staggered steps, then back to start
	assert.Equal(t, []int32{1000, 1500, 2000, 1000}, sim.targetWriteLog())
	assert.Equal(t, uint64(4), drive.Metrics().MoveCount.Load())
}

func TestStaggeredMove_NoGoBack(t *testing.T) {
	sim := newSimDevice(t)
	sim.setStatusSeq(0x0627)
	sim.setRegister(ObjActualPosition, le4(0))
	sim.setRegister(ObjActualVelocity, le4(0))
	drive := newTestDrive(t, sim)

	err := drive.StaggeredMove(context.Background(), 1000, 500, -200, 3, -100, time.Millisecond, false)
	require.NoError(t, err)

	assert.Equal(t, []int32{-200, -300, -400, -500}, sim.targetWriteLog())
}

func TestStatus(t *testing.T) {
	sim := newSimDevice(t)
	negHome := int32(-4321)
	sim.setRegister(ObjActualPosition, le4(uint32(negHome)))
	sim.setRegister(ObjActualVelocity, le4(777))
	drive := newTestDrive(t, sim)

	pos, vel, err := drive.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(-4321), pos)
	assert.Equal(t, int32(777), vel)
	// two independent reads, no control writes, no status polls
	assert.Equal(t, 0, sim.statusReadCount())
	assert.Empty(t, sim.controlWriteLog())
}
