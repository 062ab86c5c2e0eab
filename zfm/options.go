package zfm

import (
	"time"

	"github.com/growsense/go-zfm/protocol"
)

// Config holds the sensor session configuration.
type Config struct {
	// Address is the module address placed in every packet
	Address uint32

	// Password is verified when the session is initialized
	Password uint32

	// ReadTimeout bounds each read from the transport
	ReadTimeout time.Duration

	// PollInterval is the pause between finger detection attempts
	PollInterval time.Duration

	// EnrollCaptures is the number of finger captures merged per enrollment
	EnrollCaptures int

	// EnrollProgress is called as an enrollment advances (optional)
	EnrollProgress EnrollProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger
}

// defaultConfig returns the default configuration, matching the factory
// settings of the module.
func defaultConfig() Config {
	return Config{
		Address:        protocol.DefaultAddress,
		Password:       protocol.DefaultPassword,
		ReadTimeout:    time.Second,
		PollInterval:   50 * time.Millisecond,
		EnrollCaptures: 2,
	}
}

// Option is a functional option for configuring the Sensor.
type Option func(*Config)

// WithAddress sets the module address for the session. Modules answer only
// packets carrying their address.
//
// Example:
//
//	sensor := zfm.New(port, zfm.WithAddress(0x00C0FFEE))
func WithAddress(address uint32) Option {
	return func(c *Config) {
		c.Address = address
	}
}

// WithPassword sets the password verified during initialization.
//
// Example:
//
//	sensor := zfm.New(port, zfm.WithPassword(0xA1B2C3D4))
func WithPassword(password uint32) Option {
	return func(c *Config) {
		c.Password = password
	}
}

// WithReadTimeout sets the transport read timeout.
//
// Example:
//
//	sensor := zfm.New(port, zfm.WithReadTimeout(2*time.Second))
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.ReadTimeout = timeout
		}
	}
}

// WithPollInterval sets the pause between finger detection attempts.
//
// Example:
//
//	sensor := zfm.New(port, zfm.WithPollInterval(100*time.Millisecond))
func WithPollInterval(interval time.Duration) Option {
	return func(c *Config) {
		if interval > 0 {
			c.PollInterval = interval
		}
	}
}

// WithEnrollCaptures sets how many captures an enrollment combines.
// The first capture fills character buffer 1, later ones are merged in
// through buffer 2. Default is 2.
//
// Example:
//
//	sensor := zfm.New(port, zfm.WithEnrollCaptures(3))
func WithEnrollCaptures(captures int) Option {
	return func(c *Config) {
		if captures >= 1 {
			c.EnrollCaptures = captures
		}
	}
}

// WithEnrollProgress sets a callback to track enrollment progress.
//
// Example:
//
//	sensor := zfm.New(port,
//	    zfm.WithEnrollProgress(func(s zfm.EnrollStatus) {
//	        fmt.Printf("[%d/%d] %s\n", s.Capture, s.Captures, s.Stage)
//	    }),
//	)
func WithEnrollProgress(callback EnrollProgressCallback) Option {
	return func(c *Config) {
		c.EnrollProgress = callback
	}
}

// WithLogger sets a logger for the sensor operations.
//
// Example:
//
//	sensor := zfm.New(port, zfm.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
