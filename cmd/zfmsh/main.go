// Command zfmsh is an interactive operator console for ZFM fingerprint
// modules.
//
// Run it against a module on a serial port:
//
//	zfmsh -device /dev/ttyUSB0
//
// or run a single command and exit:
//
//	zfmsh -device /dev/ttyUSB0 count
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/growsense/go-zfm/protocol"
	"github.com/growsense/go-zfm/uart"
	"github.com/growsense/go-zfm/zfm"
)

var (
	device   = flag.String("device", "/dev/ttyUSB0", "serial device the module is attached to")
	baud     = flag.Int("baud", protocol.DefaultBaudRate, "serial baud rate")
	password = flag.Uint("password", uint(protocol.DefaultPassword), "module password")
	address  = flag.Uint64("address", uint64(protocol.DefaultAddress), "module address")
	debug    = flag.Bool("debug", false, "log every command exchange")
)

func main() {
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	port, err := uart.Open(*device, uart.WithBaudRate(*baud))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer port.Close()

	shell := newShell()

	sensor := zfm.New(port,
		zfm.WithAddress(uint32(*address)),
		zfm.WithPassword(uint32(*password)),
		zfm.WithLogger(&zfm.LogrusLogger{Logger: logger}),
		zfm.WithEnrollProgress(func(status zfm.EnrollStatus) {
			switch status.Stage {
			case zfm.StageWaitFinger:
				shell.Printf("place finger on the sensor (capture %d of %d)\n", status.Capture, status.Captures)
			case zfm.StageWaitRemove:
				shell.Println("remove finger")
			}
		}),
	)

	if err := sensor.Init(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "session with %s: %v\n", *device, err)
		os.Exit(1)
	}

	bind(shell, &session{sensor: sensor})

	if args := flag.Args(); len(args) > 0 {
		if err := shell.Process(args...); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	shell.Printf("connected to %s (address 0x%08X, %d slots)\n", *device, sensor.Address(), sensor.Capacity())
	shell.Run()
}
