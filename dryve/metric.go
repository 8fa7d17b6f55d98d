package dryve

import (
	"sync/atomic"
)

// DriveMetrics contains atomic metrics for a Drive.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc;
// the driver itself does not register them anywhere.
type DriveMetrics struct {
	// RequestSendCount indicates the number of request frames sent.
	RequestSendCount atomic.Uint64
	// ReplyRecvCount indicates the number of reply frames received in full.
	ReplyRecvCount atomic.Uint64
	// TransportErrCount indicates the number of failed exchanges.
	TransportErrCount atomic.Uint64

	// PollCount indicates the number of status poll iterations across all
	// wait loops.
	PollCount atomic.Uint64

	// MoveCount indicates the number of completed point-to-point moves.
	MoveCount atomic.Uint64
	// HomeCount indicates the number of completed homing runs.
	HomeCount atomic.Uint64
}

func (m *DriveMetrics) incRequestSendCount() {
	m.RequestSendCount.Add(1)
}

func (m *DriveMetrics) incReplyRecvCount() {
	m.ReplyRecvCount.Add(1)
}

func (m *DriveMetrics) incTransportErrCount() {
	m.TransportErrCount.Add(1)
}

func (m *DriveMetrics) incPollCount() {
	m.PollCount.Add(1)
}

func (m *DriveMetrics) incMoveCount() {
	m.MoveCount.Add(1)
}

func (m *DriveMetrics) incHomeCount() {
	m.HomeCount.Add(1)
}
