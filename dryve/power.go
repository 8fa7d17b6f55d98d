package dryve

import (
	"context"
	"fmt"
)

// SetShutdown commands the drive towards Ready-to-Switch-On and polls the
// status word until the device reports it.
func (d *Drive) SetShutdown(ctx context.Context) error {
	if err := d.writeControl(ctx, CtrlShutdown); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	_, err := d.waitStatus(ctx, "shutdown", d.cfg.StatusPollInterval(), func(s StatusWord) bool {
		return statusIn(s, shutdownStatuses)
	})

	return err
}

// SetSwitchOn commands the drive to Switched-On and polls the status word
// until the device reports it. The drive must be Ready-to-Switch-On.
func (d *Drive) SetSwitchOn(ctx context.Context) error {
	if err := d.writeControl(ctx, CtrlSwitchOn); err != nil {
		return fmt.Errorf("switch-on: %w", err)
	}

	_, err := d.waitStatus(ctx, "switch-on", d.cfg.StatusPollInterval(), func(s StatusWord) bool {
		return statusIn(s, switchOnStatuses)
	})

	return err
}

// SetEnableOperation commands the drive to Operation-Enabled and polls the
// status word until the device reports it. The drive must be Switched-On.
func (d *Drive) SetEnableOperation(ctx context.Context) error {
	if err := d.writeControl(ctx, CtrlEnableOperation); err != nil {
		return fmt.Errorf("enable-operation: %w", err)
	}

	_, err := d.waitStatus(ctx, "enable-operation", d.cfg.StatusPollInterval(), func(s StatusWord) bool {
		return statusIn(s, enableOpStatuses)
	})

	return err
}

// Init runs the full power-state sequence Shutdown, Switch-On,
// Enable-Operation. On success the drive is in Operation-Enabled, the
// precondition for all motion commands.
//
// The drive must be fault-free: a faulted status word matches none of the
// accepted patterns and the sequence fails with ErrOperationTimedOut instead
// of completing.
func (d *Drive) Init(ctx context.Context) error {
	d.logger.Info("initializing drive power state")

	if err := d.SetShutdown(ctx); err != nil {
		return err
	}
	d.logger.Debug("drive power state", "state", PowerReadyToSwitchOn)

	if err := d.SetSwitchOn(ctx); err != nil {
		return err
	}
	d.logger.Debug("drive power state", "state", PowerSwitchedOn)

	if err := d.SetEnableOperation(ctx); err != nil {
		return err
	}
	d.logger.Info("drive power state", "state", PowerOperationEnabled)

	return nil
}

// PowerState reads the status word once and reports the power state it
// denotes. The state is derived, never cached.
func (d *Drive) PowerState(ctx context.Context) (PowerState, error) {
	status, err := d.readStatusWord(ctx)
	if err != nil {
		return PowerUnknown, err
	}

	return classifyPower(status), nil
}
