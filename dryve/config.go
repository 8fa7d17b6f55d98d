package dryve

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/openmotion/go-dryve/logger"
)

// DefaultPort is the TCP port the D1 listens on, per Modbus TCP convention.
const DefaultPort = 502

// ConnectionConfig represents the configuration parameters for a Drive
// connection.
type ConnectionConfig struct {
	mu sync.RWMutex

	// host specifies the host of the D1 controller.
	host string

	// port specifies the TCP port number. Defaults to DefaultPort (502).
	port int

	// connectTimeout defines the timeout for establishing the TCP connection.
	// Defaults to 3 seconds.
	connectTimeout time.Duration

	// responseTimeout defines the read deadline applied to each
	// request/response exchange. Defaults to 3 seconds.
	responseTimeout time.Duration

	// statusPollInterval defines the sleep between status polls during
	// power-state transitions, mode switches and homing. Defaults to 1 second.
	statusPollInterval time.Duration

	// motionPollInterval defines the sleep between status polls while waiting
	// for a move to reach its target. Motion completion is expected sooner
	// than power-state transitions, so this poll is tighter.
	// Defaults to 100 milliseconds.
	motionPollInterval time.Duration

	// operationTimeout defines the deadline applied to a polling operation
	// when the caller's context carries none. Homing runs may legitimately
	// take minutes. Defaults to 2 minutes.
	operationTimeout time.Duration

	// logger provides a logger instance for drive events and errors.
	logger logger.Logger
}

// NewConnectionConfig creates a connection configuration for the D1 at the
// given host and port with optional functional options.
//
// A non-positive port selects DefaultPort. Options are applied in order and
// each validates its input.
func NewConnectionConfig(host string, port int, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		connectTimeout:     3 * time.Second,
		responseTimeout:    3 * time.Second,
		statusPollInterval: 1 * time.Second,
		motionPollInterval: 100 * time.Millisecond,
		operationTimeout:   2 * time.Minute,
		logger:             logger.GetLogger(),
	}

	if err := withHost(host).apply(cfg); err != nil {
		return nil, err
	}

	if err := withPort(port).apply(cfg); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *ConnectionConfig) Host() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.host
}

func (cfg *ConnectionConfig) Port() int {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.port
}

func (cfg *ConnectionConfig) ConnectTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.connectTimeout
}

func (cfg *ConnectionConfig) ResponseTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.responseTimeout
}

func (cfg *ConnectionConfig) StatusPollInterval() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.statusPollInterval
}

func (cfg *ConnectionConfig) MotionPollInterval() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.motionPollInterval
}

func (cfg *ConnectionConfig) OperationTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.operationTimeout
}

func (cfg *ConnectionConfig) Logger() logger.Logger {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.logger
}

// ConnOption represents a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc struct {
	name      string
	applyFunc func(*ConnectionConfig) error
}

func (c *connOptFunc) apply(cfg *ConnectionConfig) error { return c.applyFunc(cfg) }

func newConnOptFunc(name string, f func(*ConnectionConfig) error) *connOptFunc {
	return &connOptFunc{name: name, applyFunc: f}
}

func withHost(host string) ConnOption {
	return newConnOptFunc("withHost", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if host == "" {
			return errors.New("host is empty")
		}
		cfg.host = host

		return nil
	})
}

func withPort(port int) ConnOption {
	return newConnOptFunc("withPort", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if port <= 0 {
			cfg.port = DefaultPort
			return nil
		}
		if port > 65535 {
			return fmt.Errorf("invalid port %d", port)
		}
		cfg.port = port

		return nil
	})
}

// WithConnectTimeout sets the timeout for establishing the TCP connection.
// It should be between 1 second and 30 seconds.
func WithConnectTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithConnectTimeout", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if val < 1*time.Second || val > 30*time.Second {
			return errors.New("connect timeout should be between 1 and 30 seconds")
		}
		cfg.connectTimeout = val

		return nil
	})
}

// WithResponseTimeout sets the read deadline for each request/response
// exchange. It should be between 100 milliseconds and 30 seconds.
func WithResponseTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithResponseTimeout", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if val < 100*time.Millisecond || val > 30*time.Second {
			return errors.New("response timeout should be between 100ms and 30 seconds")
		}
		cfg.responseTimeout = val

		return nil
	})
}

// WithStatusPollInterval sets the sleep between status polls during
// power-state transitions, mode switches and homing. It must be positive.
func WithStatusPollInterval(val time.Duration) ConnOption {
	return newConnOptFunc("WithStatusPollInterval", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if val <= 0 {
			return errors.New("status poll interval should be positive")
		}
		cfg.statusPollInterval = val

		return nil
	})
}

// WithMotionPollInterval sets the sleep between status polls while waiting
// for a move to complete. It must be positive.
func WithMotionPollInterval(val time.Duration) ConnOption {
	return newConnOptFunc("WithMotionPollInterval", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if val <= 0 {
			return errors.New("motion poll interval should be positive")
		}
		cfg.motionPollInterval = val

		return nil
	})
}

// WithOperationTimeout sets the deadline applied to polling operations when
// the caller's context carries none. It must be positive.
func WithOperationTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithOperationTimeout", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if val <= 0 {
			return errors.New("operation timeout should be positive")
		}
		cfg.operationTimeout = val

		return nil
	})
}

// WithLogger sets the logger instance for drive events and errors.
func WithLogger(l logger.Logger) ConnOption {
	return newConnOptFunc("WithLogger", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if l == nil {
			return errors.New("logger is nil")
		}
		cfg.logger = l

		return nil
	})
}
