package zfm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/growsense/go-zfm/protocol"
)

func TestWaitForFinger(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeNoFinger)
	transport.queueAck(protocol.CodeNoFinger)
	transport.queueAck(protocol.CodeOK)

	sensor := New(transport, WithPollInterval(time.Millisecond))
	require.NoError(t, sensor.WaitForFinger(context.Background()))

	// One capture attempt per poll.
	require.Len(t, transport.writes, 3)
	for i := range transport.writes {
		require.Equal(t, byte(protocol.CmdGetImage), transport.cmd(i))
	}
}

func TestWaitForFingerError(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeImageFail)

	sensor := New(transport, WithPollInterval(time.Millisecond))
	err := sensor.WaitForFinger(context.Background())

	var cmdErr *protocol.CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, protocol.CodeImageFail, cmdErr.Code)
}

func TestWaitForFingerCancelled(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeNoFinger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sensor := New(transport, WithPollInterval(time.Hour))
	err := sensor.WaitForFinger(ctx)

	require.ErrorIs(t, err, context.Canceled)
}

func TestWaitFingerRemoved(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)
	transport.queueAck(protocol.CodeNoFinger)

	sensor := New(transport, WithPollInterval(time.Millisecond))
	require.NoError(t, sensor.WaitFingerRemoved(context.Background()))
	require.Len(t, transport.writes, 2)
}

func TestEnroll(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)       // capture 1
	transport.queueAck(protocol.CodeOK)       // extract into buffer 1
	transport.queueAck(protocol.CodeNoFinger) // finger lifted
	transport.queueAck(protocol.CodeOK)       // capture 2
	transport.queueAck(protocol.CodeOK)       // extract into buffer 2
	transport.queueAck(protocol.CodeOK)       // merge
	transport.queueAck(protocol.CodeOK)       // store

	var stages []EnrollStatus
	sensor := New(transport,
		WithPollInterval(time.Millisecond),
		WithEnrollProgress(func(status EnrollStatus) {
			stages = append(stages, status)
		}),
	)

	require.NoError(t, sensor.Enroll(context.Background(), 12))
	require.Len(t, transport.writes, 7)

	wantCmds := []byte{
		protocol.CmdGetImage,
		protocol.CmdImage2Tz,
		protocol.CmdGetImage,
		protocol.CmdGetImage,
		protocol.CmdImage2Tz,
		protocol.CmdRegModel,
		protocol.CmdStore,
	}
	for i, want := range wantCmds {
		require.Equal(t, want, transport.cmd(i), "write %d", i)
	}

	// First extraction lands in buffer 1, the second in buffer 2.
	require.Equal(t, byte(protocol.CharBuffer1), transport.writes[1][protocol.HeaderSize+1])
	require.Equal(t, byte(protocol.CharBuffer2), transport.writes[4][protocol.HeaderSize+1])

	// The merged template is stored from buffer 1 at the asked slot.
	store := transport.writes[6]
	require.Equal(t, byte(protocol.CharBuffer1), store[protocol.HeaderSize+1])
	require.Equal(t, []byte{0x00, 0x0C}, store[protocol.HeaderSize+2:protocol.HeaderSize+4])

	wantStages := []EnrollStatus{
		{Stage: StageWaitFinger, Capture: 1, Captures: 2},
		{Stage: StageExtract, Capture: 1, Captures: 2},
		{Stage: StageWaitRemove, Capture: 1, Captures: 2},
		{Stage: StageWaitFinger, Capture: 2, Captures: 2},
		{Stage: StageExtract, Capture: 2, Captures: 2},
		{Stage: StageMerge, Capture: 2, Captures: 2},
		{Stage: StageStore, Capture: 2, Captures: 2},
		{Stage: StageComplete, Capture: 2, Captures: 2},
	}
	require.Equal(t, wantStages, stages)
}

func TestEnrollStepAttribution(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)          // capture 1
	transport.queueAck(protocol.CodeOK)          // extract into buffer 1
	transport.queueAck(protocol.CodeNoFinger)    // finger lifted
	transport.queueAck(protocol.CodeOK)          // capture 2
	transport.queueAck(protocol.CodeFeatureFail) // extraction rejected

	sensor := New(transport, WithPollInterval(time.Millisecond))
	err := sensor.Enroll(context.Background(), 3)

	var enrollErr *EnrollError
	require.ErrorAs(t, err, &enrollErr)
	require.Equal(t, StageExtract, enrollErr.Step)
	require.Equal(t, 2, enrollErr.Capture)

	// The module's code survives the wrapping.
	require.True(t, protocol.IsCode(err, protocol.CodeFeatureFail))
}

func TestEnrollSingleCapture(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK) // capture
	transport.queueAck(protocol.CodeOK) // extract
	transport.queueAck(protocol.CodeOK) // store

	sensor := New(transport,
		WithPollInterval(time.Millisecond),
		WithEnrollCaptures(1),
	)

	require.NoError(t, sensor.Enroll(context.Background(), 0))

	// A single capture needs no merge and no finger-lift wait.
	require.Len(t, transport.writes, 3)
	require.Equal(t, byte(protocol.CmdGetImage), transport.cmd(0))
	require.Equal(t, byte(protocol.CmdImage2Tz), transport.cmd(1))
	require.Equal(t, byte(protocol.CmdStore), transport.cmd(2))
}

func TestEnrollStoreRefused(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)
	transport.queueAck(protocol.CodeOK)
	transport.queueAck(protocol.CodeBadLocation)

	sensor := New(transport,
		WithPollInterval(time.Millisecond),
		WithEnrollCaptures(1),
	)
	err := sensor.Enroll(context.Background(), 9999)

	var enrollErr *EnrollError
	require.ErrorAs(t, err, &enrollErr)
	require.Equal(t, StageStore, enrollErr.Step)
	require.True(t, protocol.IsCode(err, protocol.CodeBadLocation))
}

func TestIdentify(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK) // capture
	transport.queueAck(protocol.CodeOK) // extract
	transport.queueAck(protocol.CodeOK, sysParamsData(200, 2, 6)...)
	transport.queueAck(protocol.CodeOK, 0x00, 0x07, 0x00, 0x63)

	sensor := New(transport, WithPollInterval(time.Millisecond))
	result, err := sensor.Identify(context.Background())
	require.NoError(t, err)

	require.Equal(t, uint16(7), result.Slot)
	require.Equal(t, uint16(99), result.Score)

	require.Len(t, transport.writes, 4)
	require.Equal(t, byte(protocol.CmdGetImage), transport.cmd(0))
	require.Equal(t, byte(protocol.CmdImage2Tz), transport.cmd(1))
	require.Equal(t, byte(protocol.CmdReadSysParams), transport.cmd(2))
	require.Equal(t, byte(protocol.CmdSearch), transport.cmd(3))
}
