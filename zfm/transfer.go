package zfm

import (
	"context"
	"fmt"

	"github.com/growsense/go-zfm/protocol"
)

// UploadTemplate reads the contents of a character buffer out of the
// module. The template arrives as a run of data packets terminated by an
// end-of-data packet; a stream that breaks off early is reported as an
// *IncompleteTransferError.
func (s *Sensor) UploadTemplate(ctx context.Context, buffer byte) ([]byte, error) {
	frame, err := protocol.BuildUpCharCmd(s.address, buffer)
	if err != nil {
		return nil, err
	}
	if _, err := s.command(ctx, "upload template", frame); err != nil {
		return nil, err
	}

	return s.receiveData(ctx, "upload template")
}

// DownloadTemplate writes template data into a character buffer, chunked
// to the module's packet size.
func (s *Sensor) DownloadTemplate(ctx context.Context, buffer byte, data []byte) error {
	frame, err := protocol.BuildDownCharCmd(s.address, buffer)
	if err != nil {
		return err
	}
	if _, err := s.command(ctx, "download template", frame); err != nil {
		return err
	}

	return s.sendData(ctx, data)
}

// UploadImage reads the raw image buffer out of the module. At typical
// packet sizes this is a long transfer; the context can cut it short.
func (s *Sensor) UploadImage(ctx context.Context) ([]byte, error) {
	frame, err := protocol.BuildUpImageCmd(s.address)
	if err != nil {
		return nil, err
	}
	if _, err := s.command(ctx, "upload image", frame); err != nil {
		return nil, err
	}

	return s.receiveData(ctx, "upload image")
}

// DownloadImage writes raw image data into the module's image buffer.
func (s *Sensor) DownloadImage(ctx context.Context, data []byte) error {
	frame, err := protocol.BuildDownImageCmd(s.address)
	if err != nil {
		return err
	}
	if _, err := s.command(ctx, "download image", frame); err != nil {
		return err
	}

	return s.sendData(ctx, data)
}

// receiveData collects data packets until the end-of-data packet arrives,
// concatenating their payloads.
func (s *Sensor) receiveData(ctx context.Context, op string) ([]byte, error) {
	var received []byte

	for {
		if err := ctx.Err(); err != nil {
			return nil, &IncompleteTransferError{Op: op, Received: len(received), Err: err}
		}

		pkt, err := protocol.ReadPacket(s.transport)
		if err != nil {
			return nil, &IncompleteTransferError{Op: op, Received: len(received), Err: err}
		}

		if pkt.Address != s.address {
			return nil, fmt.Errorf("%s: reply address 0x%08X does not match 0x%08X", op, pkt.Address, s.address)
		}

		switch pkt.ID {
		case protocol.PacketData:
			received = append(received, pkt.Payload...)
		case protocol.PacketEndData:
			received = append(received, pkt.Payload...)
			s.logDebug("transfer received", "op", op, "bytes", len(received))
			return received, nil
		default:
			return nil, &IncompleteTransferError{
				Op:       op,
				Received: len(received),
				Err:      &protocol.UnrecognizedResponseError{PacketID: pkt.ID},
			}
		}
	}
}

// sendData streams data to the module in packet-size chunks. The final
// chunk always goes out as an end-of-data packet, even when the data is
// empty or divides evenly, so the module knows the transfer is over.
func (s *Sensor) sendData(ctx context.Context, data []byte) error {
	if err := s.ensureParams(ctx); err != nil {
		return err
	}

	chunkSize := s.packetSize
	sent := 0

	for len(data) > chunkSize {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("transfer cancelled after %d bytes: %w", sent, err)
		}

		frame, err := protocol.BuildDataPacket(s.address, data[:chunkSize], false)
		if err != nil {
			return err
		}
		if _, err := s.transport.Write(frame); err != nil {
			return fmt.Errorf("write data packet: %w", err)
		}

		sent += chunkSize
		data = data[chunkSize:]
	}

	frame, err := protocol.BuildDataPacket(s.address, data, true)
	if err != nil {
		return err
	}
	if _, err := s.transport.Write(frame); err != nil {
		return fmt.Errorf("write end-of-data packet: %w", err)
	}

	s.logDebug("transfer sent", "bytes", sent+len(data))
	return nil
}
