package zfm

// Enrollment stages reported to EnrollProgressCallback.
const (
	// StageWaitFinger means the module is waiting for a finger press
	StageWaitFinger = "waiting for finger"

	// StageWaitRemove means the module is waiting for the finger to lift
	StageWaitRemove = "waiting for finger lift"

	// StageExtract means a capture is being converted to features
	StageExtract = "extracting features"

	// StageMerge means the captures are being combined into a template
	StageMerge = "merging captures"

	// StageStore means the template is being written to the library
	StageStore = "storing template"

	// StageComplete means the enrollment finished successfully
	StageComplete = "complete"
)

// EnrollStatus describes how far an enrollment has progressed.
// Passed to EnrollProgressCallback during Enroll.
type EnrollStatus struct {
	// Stage is one of the Stage* constants
	Stage string

	// Capture is the current capture number (1-based)
	Capture int

	// Captures is the total number of captures for this enrollment
	Captures int
}

// EnrollProgressCallback is called as an enrollment advances, typically to
// prompt the user to press or lift their finger. Implementations should
// return quickly to avoid stalling the exchange with the module.
//
// Example:
//
//	sensor := zfm.New(port,
//	    zfm.WithEnrollProgress(func(s zfm.EnrollStatus) {
//	        fmt.Printf("[%d/%d] %s\n", s.Capture, s.Captures, s.Stage)
//	    }),
//	)
type EnrollProgressCallback func(EnrollStatus)

// Logger is an optional logging interface that can be provided to the
// sensor session. This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	sensor := zfm.New(port, zfm.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
