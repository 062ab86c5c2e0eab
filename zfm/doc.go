// Package zfm provides a high-level API for ZFM-20/R30x/R50x fingerprint modules.
//
// # Overview
//
// This package drives one module over a byte transport and covers the full
// command set:
//   - Session setup with password verification
//   - Finger capture, feature extraction and template creation
//   - Library management: store, load, delete, search, occupancy
//   - Template and image transfers in and out of the module
//   - Module configuration: address, password, baud rate, security level,
//     packet size
//
// # Basic Usage
//
// The simplest way to identify a finger:
//
//	port, err := uart.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	sensor := zfm.New(port)
//	if err := sensor.Init(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := sensor.Identify(context.Background())
//	if protocol.IsNotFound(err) {
//	    fmt.Println("unknown finger")
//	} else if err == nil {
//	    fmt.Printf("slot %d (score %d)\n", result.Slot, result.Score)
//	}
//
// # Enrollment
//
// Enroll registers a finger over several captures and reports progress
// through a callback:
//
//	sensor := zfm.New(port,
//	    zfm.WithEnrollProgress(func(s zfm.EnrollStatus) {
//	        fmt.Printf("[%d/%d] %s\n", s.Capture, s.Captures, s.Stage)
//	    }),
//	)
//	err := sensor.Enroll(ctx, 12)
//
// # Configuration Options
//
// Customize behavior with functional options:
//
//	sensor := zfm.New(port,
//	    zfm.WithAddress(0x00C0FFEE),
//	    zfm.WithPassword(0xA1B2C3D4),
//	    zfm.WithReadTimeout(2*time.Second),
//	    zfm.WithPollInterval(100*time.Millisecond),
//	    zfm.WithEnrollCaptures(3),
//	    zfm.WithLogger(&zfm.LogrusLogger{Logger: log}),
//	)
//
// # Context Support
//
// Every operation takes a context for cancellation. The finger polls
// (WaitForFinger, Identify, Enroll) block until a finger arrives, so bound
// them:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	err := sensor.Enroll(ctx, 12)
//
// # Error Handling
//
// The package reports structured error types:
//   - *EnrollError: which enrollment step failed, on which capture
//   - *IncompleteTransferError: a template or image transfer broke off
//   - *protocol.CommandError: the module refused an operation
//   - *protocol.ChecksumError, *protocol.TimeoutError: wire-level faults
//
// Module refusals that are ordinary outcomes have predicates:
// protocol.IsNotFound for a search miss, protocol.IsNoFinger for an empty
// sensor window, protocol.IsNoMatch for a failed compare.
//
// # Hardware Independence
//
// This package does not open serial ports itself. Anything implementing
// Transport works: the uart package for real hardware, or an in-memory
// fake for tests. Read must return (0, nil) when the read timeout elapses,
// which is what serial ports do.
package zfm
