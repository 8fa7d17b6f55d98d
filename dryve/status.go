package dryve

import (
	"fmt"
	"strings"
)

// StatusWord is the 16-bit CiA-402 status word reported by the device,
// decoded little-endian from a StatusWord register reply.
//
// The wait predicates in this package intentionally match the full word
// against exact literal sets rather than individual flags: the device reports
// a small, enumerable set of word values per phase, and matching anything
// looser would accept states the original protocol choreography never
// accepted. The flag accessors exist for logging and progress reporting.
type StatusWord uint16

func (s StatusWord) ReadyToSwitchOn() bool { return s&0x0001 != 0 }
func (s StatusWord) SwitchedOn() bool      { return s&0x0002 != 0 }
func (s StatusWord) OperationEnabled() bool {
	return s&0x0004 != 0
}
func (s StatusWord) Fault() bool            { return s&0x0008 != 0 }
func (s StatusWord) VoltageEnabled() bool   { return s&0x0010 != 0 }
func (s StatusWord) QuickStop() bool        { return s&0x0020 != 0 }
func (s StatusWord) SwitchOnDisabled() bool { return s&0x0040 != 0 }
func (s StatusWord) Warning() bool          { return s&0x0080 != 0 }
func (s StatusWord) Remote() bool           { return s&0x0200 != 0 }
func (s StatusWord) TargetReached() bool    { return s&0x0400 != 0 }

// HomingAttained reports the mode-specific bit 12, which the device sets when
// a homing run has completed. It is meaningful only in homing mode.
func (s StatusWord) HomingAttained() bool { return s&0x1000 != 0 }

// String returns the word value and the set flags, e.g.
// "0x0627 [ready switched-on enabled voltage quick-stop target-reached]".
func (s StatusWord) String() string {
	flags := make([]string, 0, 8)
	for _, f := range []struct {
		set  bool
		name string
	}{
		{s.ReadyToSwitchOn(), "ready"},
		{s.SwitchedOn(), "switched-on"},
		{s.OperationEnabled(), "enabled"},
		{s.Fault(), "fault"},
		{s.VoltageEnabled(), "voltage"},
		{s.QuickStop(), "quick-stop"},
		{s.SwitchOnDisabled(), "switch-on-disabled"},
		{s.Warning(), "warning"},
		{s.Remote(), "remote"},
		{s.TargetReached(), "target-reached"},
		{s.HomingAttained(), "homing-attained"},
	} {
		if f.set {
			flags = append(flags, f.name)
		}
	}

	return fmt.Sprintf("0x%04X [%s]", uint16(s), strings.Join(flags, " "))
}

// Accepted status word sets per power-state phase. The sets enumerate every
// word value the device has been observed to report in the target phase; a
// faulted or busy word matches none of them.
var (
	shutdownStatuses  = []StatusWord{0x0621, 0x1621, 0x0221}
	switchOnStatuses  = []StatusWord{0x0623, 0x1623, 0x0223}
	enableOpStatuses  = []StatusWord{0x0627, 0x1627, 0x0227}
	homingDoneStatus  = StatusWord(0x1627)
	targetReachedStat = StatusWord(0x0627)
)

// statusIn reports whether s equals one of the accepted word values.
func statusIn(s StatusWord, accepted []StatusWord) bool {
	for _, a := range accepted {
		if s == a {
			return true
		}
	}

	return false
}
