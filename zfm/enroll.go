package zfm

import (
	"context"
	"fmt"
	"time"

	"github.com/growsense/go-zfm/protocol"
)

// WaitForFinger polls the sensor window until a finger is captured. The
// poll pauses PollInterval between attempts and stops when the context is
// cancelled.
func (s *Sensor) WaitForFinger(ctx context.Context) error {
	frame, err := protocol.BuildGetImageCmd(s.address)
	if err != nil {
		return err
	}

	for {
		code, _, err := s.roundTrip(ctx, "capture image", frame, s.address)
		if err != nil {
			return err
		}

		switch code {
		case protocol.CodeOK:
			return nil
		case protocol.CodeNoFinger:
			// keep polling
		default:
			return &protocol.CommandError{Op: "capture image", Code: code}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("capture image cancelled: %w", ctx.Err())
		case <-time.After(s.config.PollInterval):
		}
	}
}

// WaitFingerRemoved polls the sensor window until the finger is lifted.
// Enrollments call this between captures so the same press is not captured
// twice.
func (s *Sensor) WaitFingerRemoved(ctx context.Context) error {
	frame, err := protocol.BuildGetImageCmd(s.address)
	if err != nil {
		return err
	}

	for {
		code, _, err := s.roundTrip(ctx, "check finger removed", frame, s.address)
		if err != nil {
			return err
		}

		switch code {
		case protocol.CodeNoFinger:
			return nil
		case protocol.CodeOK, protocol.CodeImageFail, protocol.CodeImageMess:
			// finger still on the window, or a smeared lift
		default:
			return &protocol.CommandError{Op: "check finger removed", Code: code}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("check finger removed cancelled: %w", ctx.Err())
		case <-time.After(s.config.PollInterval):
		}
	}
}

// Enroll registers a new fingerprint in the given library slot. The
// configured number of captures are taken, each waiting for the finger to
// be pressed and lifted again, merged into one template and stored.
//
// Failures are reported as *EnrollError naming the step and capture, so a
// caller can prompt the user precisely:
//
//	err := sensor.Enroll(ctx, 12)
//	var enrollErr *zfm.EnrollError
//	if errors.As(err, &enrollErr) {
//	    fmt.Printf("retry: %s went wrong on capture %d\n", enrollErr.Step, enrollErr.Capture)
//	}
func (s *Sensor) Enroll(ctx context.Context, location uint16) error {
	captures := s.config.EnrollCaptures

	for capture := 1; capture <= captures; capture++ {
		s.reportEnroll(EnrollStatus{Stage: StageWaitFinger, Capture: capture, Captures: captures})

		if err := s.WaitForFinger(ctx); err != nil {
			return &EnrollError{Step: StageWaitFinger, Capture: capture, Err: err}
		}

		s.reportEnroll(EnrollStatus{Stage: StageExtract, Capture: capture, Captures: captures})

		buffer := byte(protocol.CharBuffer1)
		if capture > 1 {
			buffer = protocol.CharBuffer2
		}
		if err := s.ImageToChar(ctx, buffer); err != nil {
			return &EnrollError{Step: StageExtract, Capture: capture, Err: err}
		}

		// Each capture after the first is merged into the model built so
		// far; the merged result lands back in both buffers.
		if capture > 1 {
			s.reportEnroll(EnrollStatus{Stage: StageMerge, Capture: capture, Captures: captures})

			if err := s.CreateModel(ctx); err != nil {
				return &EnrollError{Step: StageMerge, Capture: capture, Err: err}
			}
		}

		if capture < captures {
			s.reportEnroll(EnrollStatus{Stage: StageWaitRemove, Capture: capture, Captures: captures})

			if err := s.WaitFingerRemoved(ctx); err != nil {
				return &EnrollError{Step: StageWaitRemove, Capture: capture, Err: err}
			}
		}
	}

	s.reportEnroll(EnrollStatus{Stage: StageStore, Capture: captures, Captures: captures})

	if err := s.Store(ctx, protocol.CharBuffer1, location); err != nil {
		return &EnrollError{Step: StageStore, Capture: captures, Err: err}
	}

	s.reportEnroll(EnrollStatus{Stage: StageComplete, Capture: captures, Captures: captures})
	s.logInfo("enrollment complete", "location", location, "captures", captures)

	return nil
}

// Identify captures a finger and searches the library for it. It blocks
// until a finger is pressed or the context is cancelled.
func (s *Sensor) Identify(ctx context.Context) (*protocol.SearchResult, error) {
	if err := s.WaitForFinger(ctx); err != nil {
		return nil, err
	}

	if err := s.ImageToChar(ctx, protocol.CharBuffer1); err != nil {
		return nil, err
	}

	return s.Search(ctx, protocol.CharBuffer1)
}

// reportEnroll calls the enrollment progress callback if configured.
func (s *Sensor) reportEnroll(status EnrollStatus) {
	if s.config.EnrollProgress != nil {
		s.config.EnrollProgress(status)
	}
}
