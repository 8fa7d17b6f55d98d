package dryve

// PowerState represents the drive's position in the CiA-402 power-state
// machine. It is always derived from the latest status word, never stored
// client-side; every transition re-polls the device.
type PowerState uint32

const (
	// PowerUnknown indicates a status word that matches no known phase,
	// including faulted and transitional states.
	PowerUnknown PowerState = iota
	// PowerReadyToSwitchOn indicates the drive accepted the shutdown command.
	PowerReadyToSwitchOn
	// PowerSwitchedOn indicates the drive is switched on but not yet enabled.
	PowerSwitchedOn
	// PowerOperationEnabled indicates the drive accepts motion commands. This
	// is the precondition for Home, Move and StaggeredMove.
	PowerOperationEnabled
)

// String returns the string representation of the power state.
func (s PowerState) String() string {
	switch s {
	case PowerReadyToSwitchOn:
		return "ready-to-switch-on"
	case PowerSwitchedOn:
		return "switched-on"
	case PowerOperationEnabled:
		return "operation-enabled"
	default:
		return "unknown"
	}
}

// classifyPower maps a status word onto the power state it denotes, using the
// same exact literal sets the wait predicates use.
func classifyPower(s StatusWord) PowerState {
	switch {
	case statusIn(s, enableOpStatuses):
		return PowerOperationEnabled
	case statusIn(s, switchOnStatuses):
		return PowerSwitchedOn
	case statusIn(s, shutdownStatuses):
		return PowerReadyToSwitchOn
	default:
		return PowerUnknown
	}
}
