package zfm

import (
	"fmt"
)

// EnrollError indicates an enrollment failed, naming the step and capture
// it failed on so callers can tell the user what to retry.
type EnrollError struct {
	// Step is the enrollment stage that failed
	Step string

	// Capture is the capture number the failure happened on (1-based)
	Capture int

	// Err is the underlying failure
	Err error
}

func (e *EnrollError) Error() string {
	return fmt.Sprintf("enrollment failed while %s on capture %d: %v", e.Step, e.Capture, e.Err)
}

func (e *EnrollError) Unwrap() error {
	return e.Err
}

// IncompleteTransferError indicates a multi-packet transfer broke off
// before the end-of-data packet arrived.
type IncompleteTransferError struct {
	// Op is the transfer operation that broke off
	Op string

	// Received is the number of payload bytes collected before the break
	Received int

	// Err is the underlying failure
	Err error
}

func (e *IncompleteTransferError) Error() string {
	return fmt.Sprintf("%s broke off after %d bytes: %v", e.Op, e.Received, e.Err)
}

func (e *IncompleteTransferError) Unwrap() error {
	return e.Err
}
