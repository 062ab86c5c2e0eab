package zfm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/growsense/go-zfm/protocol"
)

func TestSetPassword(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)
	transport.queueAck(protocol.CodeOK)

	sensor := New(transport)
	require.NoError(t, sensor.SetPassword(context.Background(), 0xA1B2C3D4))

	// The session keeps the new password: the next verify carries it.
	require.NoError(t, sensor.VerifyPassword(context.Background()))
	verify := transport.writes[1]
	require.Equal(t, []byte{0xA1, 0xB2, 0xC3, 0xD4}, verify[protocol.HeaderSize+1:protocol.HeaderSize+5])
}

func TestSetAddress(t *testing.T) {
	transport := newMockTransport()
	transport.queueAckAt(0x00C0FFEE, protocol.CodeOK)
	transport.queueAckAt(0x00C0FFEE, protocol.CodeOK)

	sensor := New(transport)
	require.NoError(t, sensor.SetAddress(context.Background(), 0x00C0FFEE))
	require.Equal(t, uint32(0x00C0FFEE), sensor.Address())

	// Later commands go out under the new address and accept replies
	// carrying it.
	require.NoError(t, sensor.VerifyPassword(context.Background()))
	require.Equal(t, []byte{0x00, 0xC0, 0xFF, 0xEE}, transport.writes[1][2:6])
}

func TestSetAddressRefused(t *testing.T) {
	transport := newMockTransport()
	transport.queueAckAt(0x00C0FFEE, protocol.CodeBadAddress)

	sensor := New(transport)
	err := sensor.SetAddress(context.Background(), 0x00C0FFEE)

	var cmdErr *protocol.CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, protocol.CodeBadAddress, cmdErr.Code)

	// The session stays bound to the old address.
	require.Equal(t, uint32(protocol.DefaultAddress), sensor.Address())
}

func TestReadSystemParams(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK, sysParamsData(1500, 1, 12)...)

	sensor := New(transport)
	params, err := sensor.ReadSystemParams(context.Background())
	require.NoError(t, err)

	require.Equal(t, uint16(1500), params.Capacity)
	require.Equal(t, 64, params.PacketSize)
	require.Equal(t, 115200, params.BaudRate)
	require.Equal(t, uint16(1500), sensor.Capacity())
	require.Equal(t, 64, sensor.PacketSize())
}

// baudTransport records baud rate reconfigurations, the way a real serial
// port follows a module rate change.
type baudTransport struct {
	mockTransport
	baud int
}

func (b *baudTransport) SetBaudRate(baud int) error {
	b.baud = baud
	return nil
}

func TestSetBaudRate(t *testing.T) {
	transport := &baudTransport{}
	transport.queueAck(protocol.CodeOK)

	sensor := New(transport)
	require.NoError(t, sensor.SetBaudRate(context.Background(), 115200))

	require.Equal(t, 115200, transport.baud)
	frame := transport.writes[0]
	require.Equal(t, byte(protocol.CmdSetSysParam), frame[protocol.HeaderSize])
	require.Equal(t, byte(protocol.ParamBaudRate), frame[protocol.HeaderSize+1])
	require.Equal(t, byte(12), frame[protocol.HeaderSize+2])
}

func TestSetBaudRateInvalid(t *testing.T) {
	transport := newMockTransport()
	sensor := New(transport)

	for _, baud := range []int{0, 9601, 124800} {
		err := sensor.SetBaudRate(context.Background(), baud)
		require.Error(t, err, "baud %d", baud)
	}
	require.Empty(t, transport.writes)
}

func TestSetSecurityLevel(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)

	sensor := New(transport)
	require.NoError(t, sensor.SetSecurityLevel(context.Background(), 4))

	require.Error(t, sensor.SetSecurityLevel(context.Background(), 0))
	require.Error(t, sensor.SetSecurityLevel(context.Background(), 6))
	require.Len(t, transport.writes, 1)
}

func TestSetPacketSize(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)

	sensor := New(transport)
	require.NoError(t, sensor.SetPacketSize(context.Background(), 256))
	require.Equal(t, 256, sensor.PacketSize())

	require.Error(t, sensor.SetPacketSize(context.Background(), 100))
	require.Len(t, transport.writes, 1)
}

func TestTemplateCount(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK, 0x00, 0x2A)

	sensor := New(transport)
	count, err := sensor.TemplateCount(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint16(42), count)
	require.Equal(t, byte(protocol.CmdTemplateCount), transport.cmd(0))
}

func TestReadIndexTable(t *testing.T) {
	bitmap := make([]byte, protocol.IndexTableSize)
	bitmap[0] = 0x05 // slots 0 and 2

	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK, bitmap...)

	sensor := New(transport)
	table, err := sensor.ReadIndexTable(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2}, table.Slots())
}

func TestTemplates(t *testing.T) {
	bitmap := make([]byte, protocol.IndexTableSize)
	bitmap[0] = 0x01  // slot 0
	bitmap[24] = 0x80 // slot 199
	bitmap[25] = 0x01 // slot 200, beyond a 200-slot library

	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK, sysParamsData(200, 2, 6)...)
	transport.queueAck(protocol.CodeOK, bitmap...)

	sensor := New(transport)
	slots, err := sensor.Templates(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int{0, 199}, slots)

	// One parameter read plus one bitmap page for a 200-slot library.
	require.Len(t, transport.writes, 2)
}

func TestTemplatesMultiPage(t *testing.T) {
	empty := make([]byte, protocol.IndexTableSize)

	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK, sysParamsData(1000, 2, 6)...)
	for page := 0; page < 4; page++ {
		transport.queueAck(protocol.CodeOK, empty...)
	}

	sensor := New(transport)
	slots, err := sensor.Templates(context.Background())
	require.NoError(t, err)
	require.Empty(t, slots)

	// 1000 slots need four bitmap pages.
	require.Len(t, transport.writes, 5)
	for page := 0; page < 4; page++ {
		frame := transport.writes[1+page]
		require.Equal(t, byte(protocol.CmdReadIndexTable), frame[protocol.HeaderSize])
		require.Equal(t, byte(page), frame[protocol.HeaderSize+1])
	}
}

func TestCaptureImageNoFinger(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeNoFinger)

	sensor := New(transport)
	err := sensor.CaptureImage(context.Background())

	require.True(t, protocol.IsNoFinger(err))
}

func TestSearch(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK, sysParamsData(200, 2, 6)...)
	transport.queueAck(protocol.CodeOK, 0x00, 0x07, 0x00, 0x96)

	sensor := New(transport)
	result, err := sensor.Search(context.Background(), protocol.CharBuffer1)
	require.NoError(t, err)
	require.Equal(t, uint16(7), result.Slot)
	require.Equal(t, uint16(150), result.Score)

	// The search range covers the whole library.
	frame := transport.writes[1]
	require.Equal(t, byte(protocol.CmdSearch), frame[protocol.HeaderSize])
	require.Equal(t, []byte{0x00, 0x00}, frame[protocol.HeaderSize+2:protocol.HeaderSize+4])
	require.Equal(t, []byte{0x00, 0xC8}, frame[protocol.HeaderSize+4:protocol.HeaderSize+6])
}

func TestSearchNotFound(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK, sysParamsData(200, 2, 6)...)
	transport.queueAck(protocol.CodeNotFound)

	sensor := New(transport)
	result, err := sensor.Search(context.Background(), protocol.CharBuffer1)

	require.Nil(t, result)
	require.True(t, protocol.IsNotFound(err))
}

func TestHighSpeedSearch(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK, sysParamsData(200, 2, 6)...)
	transport.queueAck(protocol.CodeOK, 0x00, 0x0C, 0x01, 0x00)

	sensor := New(transport)
	result, err := sensor.HighSpeedSearch(context.Background(), protocol.CharBuffer1)
	require.NoError(t, err)
	require.Equal(t, uint16(12), result.Slot)
	require.Equal(t, byte(protocol.CmdHighSpeedSearch), transport.writes[1][protocol.HeaderSize])
}

func TestCompare(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK, 0x01, 0x2C)

	sensor := New(transport)
	score, err := sensor.Compare(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint16(300), score)
}

func TestCompareNoMatch(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeNoMatch)

	sensor := New(transport)
	_, err := sensor.Compare(context.Background())

	require.True(t, protocol.IsNoMatch(err))
}

func TestStoreAndLoad(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)
	transport.queueAck(protocol.CodeOK)

	sensor := New(transport)
	require.NoError(t, sensor.Store(context.Background(), protocol.CharBuffer1, 12))
	require.NoError(t, sensor.LoadTemplate(context.Background(), protocol.CharBuffer2, 12))

	store := transport.writes[0]
	require.Equal(t, byte(protocol.CmdStore), store[protocol.HeaderSize])
	require.Equal(t, []byte{0x00, 0x0C}, store[protocol.HeaderSize+2:protocol.HeaderSize+4])

	load := transport.writes[1]
	require.Equal(t, byte(protocol.CmdLoad), load[protocol.HeaderSize])
	require.Equal(t, byte(protocol.CharBuffer2), load[protocol.HeaderSize+1])
}

func TestStoreBadLocation(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeBadLocation)

	sensor := New(transport)
	err := sensor.Store(context.Background(), protocol.CharBuffer1, 9999)

	var cmdErr *protocol.CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, protocol.CodeBadLocation, cmdErr.Code)
	require.Equal(t, "store template", cmdErr.Op)
}

func TestDelete(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)

	sensor := New(transport)
	require.NoError(t, sensor.Delete(context.Background(), 5, 3))

	frame := transport.writes[0]
	require.Equal(t, byte(protocol.CmdDelete), frame[protocol.HeaderSize])
	require.Equal(t, []byte{0x00, 0x05, 0x00, 0x03}, frame[protocol.HeaderSize+1:protocol.HeaderSize+5])
}

func TestEmpty(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)

	sensor := New(transport)
	require.NoError(t, sensor.Empty(context.Background()))
	require.Equal(t, byte(protocol.CmdEmpty), transport.cmd(0))
}

func TestSetAuraLED(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)

	sensor := New(transport)
	err := sensor.SetAuraLED(context.Background(), protocol.LEDBreathing, 0x40, protocol.LEDBlue, 0)
	require.NoError(t, err)
	require.Equal(t, byte(protocol.CmdAuraLED), transport.cmd(0))
}

func TestHandshake(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeModuleOK)

	sensor := New(transport)
	require.NoError(t, sensor.Handshake(context.Background()))
	require.Equal(t, byte(protocol.CmdGetEcho), transport.cmd(0))
}

func TestHandshakeWrongCode(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)

	sensor := New(transport)
	err := sensor.Handshake(context.Background())

	var cmdErr *protocol.CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, "handshake", cmdErr.Op)
}

func TestSoftReset(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)
	transport.queueRaw(protocol.ModuleReadyByte)

	sensor := New(transport)
	require.NoError(t, sensor.SoftReset(context.Background()))
}

func TestSoftResetNoReadyByte(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)

	sensor := New(transport)
	err := sensor.SoftReset(context.Background())

	require.Error(t, err)
	require.Contains(t, err.Error(), "ready byte")
}

func TestSoftResetWrongReadyByte(t *testing.T) {
	transport := newMockTransport()
	transport.queueAck(protocol.CodeOK)
	transport.queueRaw(0x00)

	sensor := New(transport)
	err := sensor.SoftReset(context.Background())

	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected ready byte")
}
