package dryve

import (
	"context"
	"fmt"
	"time"
)

// SetFeedrate writes the feed rate in steps per revolution, then latches it
// with the apply flag. The device accepts the value synchronously; there is
// no polling.
func (d *Drive) SetFeedrate(ctx context.Context, feedrate uint16) error {
	if err := d.writeRegister(ctx, ObjFeedRate, le2(feedrate)); err != nil {
		return fmt.Errorf("set feedrate: %w", err)
	}

	if err := d.writeRegister(ctx, ObjFeedRateApply, []byte{1}); err != nil {
		return fmt.Errorf("apply feedrate: %w", err)
	}

	return nil
}

// SetMode selects the motion mode and polls the mode display register until
// the device reports the mode as active.
func (d *Drive) SetMode(ctx context.Context, mode OperationMode) error {
	if err := d.writeRegister(ctx, ObjModeOfOperation, []byte{byte(mode)}); err != nil {
		return fmt.Errorf("set mode %s: %w", mode, err)
	}

	ctx, cancel := d.opContext(ctx)
	defer cancel()

	for attempt := 1; ; attempt++ {
		val, err := d.readRegister(ctx, ObjModeDisplay, 1)
		if err != nil {
			return opErr("set mode", err)
		}

		d.metrics.incPollCount()

		if OperationMode(val) == mode {
			return nil
		}

		d.logger.Debug("waiting for mode", "mode", mode, "attempt", attempt, "display", val)

		if err := waitInterval(ctx, d.cfg.StatusPollInterval()); err != nil {
			return opErr("set mode", err)
		}
	}
}

// triggerMotion starts the configured motion with the rising-edge pattern the
// device firmware requires: set the start bit, then clear it immediately.
func (d *Drive) triggerMotion(ctx context.Context) error {
	if err := d.writeControl(ctx, CtrlStartMotion); err != nil {
		return err
	}

	return d.writeControl(ctx, CtrlEnableOperation)
}

// Home drives the actuator to a physical reference to establish the absolute
// position origin, then re-enables operation.
//
// method selects the homing procedure; an unrecognized method fails with
// ErrUnknownHomingMethod before any frame is sent. findVelocity is the search
// velocity towards the reference (device limit: 50000), zeroVelocity the
// velocity while zeroing away from it, acceleration the ramp for both.
//
// Only LSN is verified against hardware; the other methods follow the same
// documented choreography but are unverified.
func (d *Drive) Home(ctx context.Context, method HomingMethod, findVelocity, zeroVelocity, acceleration uint16) error {
	code, ok := homingMethodCodes[method]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownHomingMethod, method)
	}

	d.logger.Info("homing", "method", method, "find_velocity", findVelocity,
		"zero_velocity", zeroVelocity, "acceleration", acceleration)

	if err := d.SetMode(ctx, ModeHoming); err != nil {
		return fmt.Errorf("homing: %w", err)
	}

	if err := d.writeRegister(ctx, ObjHomingMethod, []byte{code}); err != nil {
		return fmt.Errorf("homing method: %w", err)
	}

	if err := d.SetFeedrate(ctx, homingFeedRate); err != nil {
		return fmt.Errorf("homing: %w", err)
	}

	if err := d.writeRegister(ctx, ObjHomingSpeedSwitch, le2(findVelocity)); err != nil {
		return fmt.Errorf("homing find velocity: %w", err)
	}

	if err := d.writeRegister(ctx, ObjHomingSpeedZero, le2(zeroVelocity)); err != nil {
		return fmt.Errorf("homing zero velocity: %w", err)
	}

	if err := d.writeRegister(ctx, ObjHomingAcceleration, le2(acceleration)); err != nil {
		return fmt.Errorf("homing acceleration: %w", err)
	}

	if err := d.triggerMotion(ctx); err != nil {
		return fmt.Errorf("homing trigger: %w", err)
	}

	if _, err := d.waitStatus(ctx, "homing", d.cfg.StatusPollInterval(), func(s StatusWord) bool {
		return s == homingDoneStatus
	}); err != nil {
		return err
	}

	// leave the drive ready for further motion
	if err := d.writeControl(ctx, CtrlEnableOperation); err != nil {
		return fmt.Errorf("homing: %w", err)
	}

	d.metrics.incHomeCount()
	d.logger.Info("homing complete", "method", method)

	return nil
}

// Move runs one profile-position move to targetPosition (in steps, signed)
// and blocks until the device reports the target reached. It returns the
// actual position and velocity read back after completion and leaves the
// drive ready for further motion.
func (d *Drive) Move(ctx context.Context, velocity, acceleration uint32, targetPosition int32) (pos int32, vel int32, err error) {
	if err := d.SetMode(ctx, ModeProfilePosition); err != nil {
		return 0, 0, fmt.Errorf("move: %w", err)
	}

	if err := d.writeRegister(ctx, ObjProfileVelocity, le4(velocity)); err != nil {
		return 0, 0, fmt.Errorf("move velocity: %w", err)
	}

	if err := d.writeRegister(ctx, ObjProfileAcceleration, le4(acceleration)); err != nil {
		return 0, 0, fmt.Errorf("move acceleration: %w", err)
	}

	if err := d.writeRegister(ctx, ObjTargetPosition, le4(uint32(targetPosition))); err != nil {
		return 0, 0, fmt.Errorf("move target: %w", err)
	}

	if err := d.triggerMotion(ctx); err != nil {
		return 0, 0, fmt.Errorf("move trigger: %w", err)
	}

	if _, err := d.waitStatus(ctx, "move", d.cfg.MotionPollInterval(), func(s StatusWord) bool {
		return s == targetReachedStat
	}); err != nil {
		return 0, 0, err
	}

	pos, vel, err = d.Status(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("move readback: %w", err)
	}

	if err := d.writeControl(ctx, CtrlEnableOperation); err != nil {
		return 0, 0, fmt.Errorf("move: %w", err)
	}

	d.metrics.incMoveCount()
	d.logger.Debug("move complete", "position", pos, "velocity", vel)

	return pos, vel, nil
}

// StaggeredMove moves to startPosition, then performs iterations further
// moves of stepWidth each, pausing waitTime after each step. When goBack is
// true it finally returns to startPosition.
//
// Each step is a full move cycle (position write, trigger, poll to
// completion); the protocol offers no batching.
func (d *Drive) StaggeredMove(ctx context.Context, velocity, acceleration uint32, startPosition int32,
	iterations int, stepWidth int32, waitTime time.Duration, goBack bool,
) error {
	if err := d.SetMode(ctx, ModeProfilePosition); err != nil {
		return fmt.Errorf("staggered move: %w", err)
	}

	if err := d.writeRegister(ctx, ObjProfileVelocity, le4(velocity)); err != nil {
		return fmt.Errorf("staggered move velocity: %w", err)
	}

	if err := d.writeRegister(ctx, ObjProfileAcceleration, le4(acceleration)); err != nil {
		return fmt.Errorf("staggered move acceleration: %w", err)
	}

	if _, _, err := d.Move(ctx, velocity, acceleration, startPosition); err != nil {
		return fmt.Errorf("staggered move start: %w", err)
	}

	for i := 0; i < iterations; i++ {
		target := startPosition + stepWidth*int32(i+1)

		if _, _, err := d.Move(ctx, velocity, acceleration, target); err != nil {
			return fmt.Errorf("staggered move step %d: %w", i+1, err)
		}

		if err := waitInterval(ctx, waitTime); err != nil {
			return opErr("staggered move", err)
		}
	}

	if goBack {
		if _, _, err := d.Move(ctx, velocity, acceleration, startPosition); err != nil {
			return fmt.Errorf("staggered move return: %w", err)
		}
	}

	return nil
}

// Status reads the actual position and velocity (in steps, signed) with two
// independent exchanges. It does not affect the mode or trigger motion.
func (d *Drive) Status(ctx context.Context) (pos int32, vel int32, err error) {
	p, err := d.readRegister(ctx, ObjActualPosition, 4)
	if err != nil {
		return 0, 0, fmt.Errorf("read position: %w", err)
	}

	v, err := d.readRegister(ctx, ObjActualVelocity, 4)
	if err != nil {
		return 0, 0, fmt.Errorf("read velocity: %w", err)
	}

	return int32(p), int32(v), nil
}
