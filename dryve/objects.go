package dryve

import "github.com/openmotion/go-dryve/mei"

// Object dictionary addresses of the D1 controller.
var (
	// ObjControlWord drives the power-state machine and motion start bit.
	ObjControlWord = mei.Address{Index: 0x6040}
	// ObjStatusWord reports the power-state machine and motion completion.
	ObjStatusWord = mei.Address{Index: 0x6041}

	// ObjModeOfOperation selects the motion mode (profile position, homing).
	ObjModeOfOperation = mei.Address{Index: 0x6060}
	// ObjModeDisplay reports the motion mode the device has actually activated.
	ObjModeDisplay = mei.Address{Index: 0x6061}

	// ObjTargetPosition is the profile-position target in steps, signed.
	ObjTargetPosition = mei.Address{Index: 0x607A}
	// ObjProfileVelocity is the velocity used by profile-position moves.
	ObjProfileVelocity = mei.Address{Index: 0x6081}
	// ObjProfileAcceleration is the acceleration/deceleration ramp for moves.
	ObjProfileAcceleration = mei.Address{Index: 0x6083}

	// ObjActualPosition is the current position in steps, signed.
	ObjActualPosition = mei.Address{Index: 0x6064}
	// ObjActualVelocity is the current velocity, signed.
	ObjActualVelocity = mei.Address{Index: 0x606C}

	// ObjFeedRate is the feed rate in steps per revolution.
	ObjFeedRate = mei.Address{Index: 0x6092, Sub: 1}
	// ObjFeedRateApply latches a newly written feed rate into the device.
	ObjFeedRateApply = mei.Address{Index: 0x6092, Sub: 2}

	// ObjHomingMethod selects the homing method code.
	ObjHomingMethod = mei.Address{Index: 0x6098, Sub: 1}
	// ObjHomingSpeedSwitch is the velocity while searching for the reference switch.
	ObjHomingSpeedSwitch = mei.Address{Index: 0x6099, Sub: 1}
	// ObjHomingSpeedZero is the velocity while zeroing away from the switch.
	ObjHomingSpeedZero = mei.Address{Index: 0x6099, Sub: 2}
	// ObjHomingAcceleration is the acceleration/deceleration ramp while homing.
	ObjHomingAcceleration = mei.Address{Index: 0x609A}
)

// Control word values written to ObjControlWord.
const (
	// CtrlShutdown transitions the drive towards Ready-to-Switch-On.
	CtrlShutdown uint16 = 0x0006
	// CtrlSwitchOn transitions the drive to Switched-On.
	CtrlSwitchOn uint16 = 0x0007
	// CtrlEnableOperation transitions the drive to Operation-Enabled.
	CtrlEnableOperation uint16 = 0x000F
	// CtrlStartMotion is CtrlEnableOperation with the start bit set. The
	// device firmware requires a rising edge: write CtrlStartMotion, then
	// immediately CtrlEnableOperation, to trigger a motion exactly once.
	CtrlStartMotion uint16 = 0x001F
)

// OperationMode selects the motion mode written to ObjModeOfOperation.
type OperationMode uint8

const (
	// ModeProfilePosition ramps velocity/acceleration autonomously to reach a
	// target position.
	ModeProfilePosition OperationMode = 1
	// ModeHoming drives the actuator to a physical reference to establish an
	// absolute position origin.
	ModeHoming OperationMode = 6
)

// String returns the string representation of the operation mode.
func (m OperationMode) String() string {
	switch m {
	case ModeProfilePosition:
		return "profile-position"
	case ModeHoming:
		return "homing"
	default:
		return "unknown"
	}
}

// HomingMethod names one of the homing procedures the D1 supports.
type HomingMethod string

// Homing methods. Only LSN has been verified against hardware; the remaining
// methods follow the documented choreography but are unverified.
const (
	// HomeLSN homes against the negative limit switch.
	HomeLSN HomingMethod = "LSN"
	// HomeLSP homes against the positive limit switch.
	HomeLSP HomingMethod = "LSP"
	// HomeIEN homes on the index pulse, negative direction.
	HomeIEN HomingMethod = "IEN"
	// HomeIEP homes on the index pulse, positive direction.
	HomeIEP HomingMethod = "IEP"
	// HomeSCP homes on the current position set point.
	HomeSCP HomingMethod = "SCP"
	// HomeAAF homes using the actual position as origin.
	HomeAAF HomingMethod = "AAF"
)

// homingMethodCodes maps method names to the codes written to ObjHomingMethod.
var homingMethodCodes = map[HomingMethod]uint8{
	HomeLSN: 17,
	HomeLSP: 18,
	HomeIEN: 33,
	HomeIEP: 34,
	HomeSCP: 37,
	HomeAAF: 255,
}

// homingFeedRate is the fixed feed rate applied before every homing run.
const homingFeedRate uint16 = 6000
