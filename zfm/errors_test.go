package zfm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/growsense/go-zfm/protocol"
)

func TestEnrollErrorMessage(t *testing.T) {
	inner := &protocol.CommandError{Op: "extract features", Code: protocol.CodeFeatureFail}
	err := &EnrollError{Step: StageExtract, Capture: 2, Err: inner}

	require.Equal(t,
		"enrollment failed while extracting features on capture 2: extract features failed: too few feature points (0x07)",
		err.Error())
	require.Equal(t, inner, errors.Unwrap(err))
}

func TestIncompleteTransferErrorMessage(t *testing.T) {
	inner := &protocol.TimeoutError{Section: "payload", Want: 130, Got: 12}
	err := &IncompleteTransferError{Op: "upload template", Received: 256, Err: inner}

	require.Equal(t,
		"upload template broke off after 256 bytes: transport timeout reading payload: got 12 of 130 bytes",
		err.Error())

	var timeoutErr *protocol.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	require.Equal(t, "payload", timeoutErr.Section)
}
