// Package dryve implements a client driver for the igus dryve D1 motor
// controller, which exposes its CiA-402-style object dictionary through the
// Modbus TCP encapsulated interface transport (see the mei package).
//
// A Drive owns a single TCP connection to one controller and issues strictly
// alternating request/response frame exchanges over it. All operations are
// synchronous: power-state transitions (SetShutdown, SetSwitchOn,
// SetEnableOperation, Init) and motion commands (Home, Move, StaggeredMove)
// write the relevant registers and then poll the status word until the device
// reports the expected pattern, honoring the caller's context for deadlines
// and cancellation.
//
// The wire protocol carries no request correlation (the transaction id field
// is always zero), so the Drive serializes concurrent callers around each
// request/response exchange. Cancellation is observed between exchanges; an
// in-flight exchange always completes, leaving the connection drained and
// usable. The physical motion state after an aborted operation is undefined
// until the next status read.
package dryve
