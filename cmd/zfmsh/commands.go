package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/growsense/go-zfm/protocol"
	"github.com/growsense/go-zfm/template"
	"github.com/growsense/go-zfm/zfm"
)

const sessionKey = "$session"

// session holds the sensor shared by all shell commands.
type session struct {
	sensor *zfm.Sensor
}

// sessionFrom gets the session from the ishell context.
func sessionFrom(c *ishell.Context) *session {
	return c.Get(sessionKey).(*session)
}

// newShell creates the shell with all commands registered.
func newShell() *ishell.Shell {
	shell := ishell.New()
	shell.SetPrompt("zfm> ")
	for _, cmd := range commands {
		shell.AddCmd(cmd)
	}
	return shell
}

// bind attaches the session the commands operate on.
func bind(shell *ishell.Shell, s *session) {
	shell.Set(sessionKey, s)
}

func parseSlot(arg string) (uint16, error) {
	val, err := strconv.ParseUint(arg, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid slot %q", arg)
	}
	return uint16(val), nil
}

var ledModes = map[string]byte{
	"breathing":   protocol.LEDBreathing,
	"flashing":    protocol.LEDFlashing,
	"on":          protocol.LEDOn,
	"off":         protocol.LEDOff,
	"gradual-on":  protocol.LEDGradualOn,
	"gradual-off": protocol.LEDGradualOff,
}

var ledColors = map[string]byte{
	"red":    protocol.LEDRed,
	"blue":   protocol.LEDBlue,
	"purple": protocol.LEDPurple,
}

var commands = []*ishell.Cmd{
	{
		Name: "info",
		Help: "show the module system parameters",
		Func: func(c *ishell.Context) {
			s := sessionFrom(c)
			params, err := s.sensor.ReadSystemParams(context.Background())
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("status register: 0x%04X\n", params.StatusRegister)
			c.Printf("system id:       0x%04X\n", params.SystemID)
			c.Printf("capacity:        %d slots\n", params.Capacity)
			c.Printf("security level:  %d\n", params.SecurityLevel)
			c.Printf("address:         0x%08X\n", params.Address)
			c.Printf("packet size:     %d bytes\n", params.PacketSize)
			c.Printf("baud rate:       %d\n", params.BaudRate)
		},
	},
	{
		Name: "count",
		Help: "show how many templates are stored",
		Func: func(c *ishell.Context) {
			s := sessionFrom(c)
			count, err := s.sensor.TemplateCount(context.Background())
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("%d of %d slots used\n", count, s.sensor.Capacity())
		},
	},
	{
		Name: "slots",
		Help: "list the occupied library slots",
		Func: func(c *ishell.Context) {
			s := sessionFrom(c)
			slots, err := s.sensor.Templates(context.Background())
			if err != nil {
				c.Err(err)
				return
			}
			if len(slots) == 0 {
				c.Println("library is empty")
				return
			}
			parts := make([]string, len(slots))
			for i, slot := range slots {
				parts[i] = strconv.Itoa(slot)
			}
			c.Println(strings.Join(parts, " "))
		},
	},
	{
		Name: "enroll",
		Help: "SLOT -- register a new fingerprint",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("SLOT required"))
				return
			}
			slot, err := parseSlot(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			s := sessionFrom(c)
			if err := s.sensor.Enroll(context.Background(), slot); err != nil {
				c.Err(err)
				return
			}
			c.Printf("template stored in slot %d\n", slot)
		},
	},
	{
		Name: "find",
		Help: "capture a finger and search the library",
		Func: func(c *ishell.Context) {
			s := sessionFrom(c)
			c.Println("place finger on the sensor")
			result, err := s.sensor.Identify(context.Background())
			if protocol.IsNotFound(err) {
				c.Println("no matching template")
				return
			}
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("match: slot %d (score %d)\n", result.Slot, result.Score)
		},
	},
	{
		Name: "compare",
		Help: "capture two fingers and compare them",
		Func: func(c *ishell.Context) {
			s := sessionFrom(c)
			ctx := context.Background()

			c.Println("place first finger")
			if err := s.sensor.WaitForFinger(ctx); err != nil {
				c.Err(err)
				return
			}
			if err := s.sensor.ImageToChar(ctx, protocol.CharBuffer1); err != nil {
				c.Err(err)
				return
			}

			c.Println("remove finger")
			if err := s.sensor.WaitFingerRemoved(ctx); err != nil {
				c.Err(err)
				return
			}

			c.Println("place second finger")
			if err := s.sensor.WaitForFinger(ctx); err != nil {
				c.Err(err)
				return
			}
			if err := s.sensor.ImageToChar(ctx, protocol.CharBuffer2); err != nil {
				c.Err(err)
				return
			}

			score, err := s.sensor.Compare(ctx)
			if protocol.IsNoMatch(err) {
				c.Println("fingers do not match")
				return
			}
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("fingers match (score %d)\n", score)
		},
	},
	{
		Name: "delete",
		Help: "SLOT [COUNT] -- delete templates",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("SLOT required"))
				return
			}
			slot, err := parseSlot(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			count := uint16(1)
			if len(c.Args) > 1 {
				count, err = parseSlot(c.Args[1])
				if err != nil {
					c.Err(fmt.Errorf("invalid count %q", c.Args[1]))
					return
				}
			}
			s := sessionFrom(c)
			if err := s.sensor.Delete(context.Background(), slot, count); err != nil {
				c.Err(err)
				return
			}
			c.Printf("deleted %d slot(s) starting at %d\n", count, slot)
		},
	},
	{
		Name: "empty",
		Help: "wipe every template from the library",
		Func: func(c *ishell.Context) {
			c.Print("this wipes every template from the library, type yes to continue: ")
			if line := c.ReadLine(); line != "yes" {
				c.Println("aborted")
				return
			}
			s := sessionFrom(c)
			if err := s.sensor.Empty(context.Background()); err != nil {
				c.Err(err)
				return
			}
			c.Println("library emptied")
		},
	},
	{
		Name: "export",
		Help: "SLOT FILE -- save a stored template to a dump file",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("SLOT and FILE required"))
				return
			}
			slot, err := parseSlot(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			s := sessionFrom(c)
			ctx := context.Background()

			params, err := s.sensor.ReadSystemParams(ctx)
			if err != nil {
				c.Err(err)
				return
			}
			if err := s.sensor.LoadTemplate(ctx, protocol.CharBuffer1, slot); err != nil {
				c.Err(err)
				return
			}
			data, err := s.sensor.UploadTemplate(ctx, protocol.CharBuffer1)
			if err != nil {
				c.Err(err)
				return
			}

			meta := template.Meta{SystemID: params.SystemID, Capacity: params.Capacity}
			if err := template.Save(c.Args[1], meta, data); err != nil {
				c.Err(err)
				return
			}
			c.Printf("slot %d exported to %s (%d bytes)\n", slot, c.Args[1], len(data))
		},
	},
	{
		Name: "import",
		Help: "SLOT FILE -- store a template from a dump file",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("SLOT and FILE required"))
				return
			}
			slot, err := parseSlot(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			dump, err := template.Load(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			s := sessionFrom(c)
			ctx := context.Background()

			if err := s.sensor.DownloadTemplate(ctx, protocol.CharBuffer1, dump.Data); err != nil {
				c.Err(err)
				return
			}
			if err := s.sensor.Store(ctx, protocol.CharBuffer1, slot); err != nil {
				c.Err(err)
				return
			}
			c.Printf("%s stored in slot %d\n", c.Args[1], slot)
		},
	},
	{
		Name: "image",
		Help: "FILE -- capture a finger and save the raw image",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("FILE required"))
				return
			}
			s := sessionFrom(c)
			ctx := context.Background()

			c.Println("place finger on the sensor")
			if err := s.sensor.WaitForFinger(ctx); err != nil {
				c.Err(err)
				return
			}
			data, err := s.sensor.UploadImage(ctx)
			if err != nil {
				c.Err(err)
				return
			}
			if err := os.WriteFile(c.Args[0], data, 0o644); err != nil {
				c.Err(err)
				return
			}
			c.Printf("image written to %s (%d bytes)\n", c.Args[0], len(data))
		},
	},
	{
		Name: "led",
		Help: "[MODE] [COLOR] -- control the ring LED (breathing blue by default)",
		Func: func(c *ishell.Context) {
			mode := byte(protocol.LEDBreathing)
			color := byte(protocol.LEDBlue)
			if len(c.Args) > 0 {
				m, ok := ledModes[c.Args[0]]
				if !ok {
					c.Err(fmt.Errorf("unknown mode %q (breathing, flashing, on, off, gradual-on, gradual-off)", c.Args[0]))
					return
				}
				mode = m
			}
			if len(c.Args) > 1 {
				col, ok := ledColors[c.Args[1]]
				if !ok {
					c.Err(fmt.Errorf("unknown color %q (red, blue, purple)", c.Args[1]))
					return
				}
				color = col
			}
			s := sessionFrom(c)
			if err := s.sensor.SetAuraLED(context.Background(), mode, 0x50, color, 0); err != nil {
				c.Err(err)
				return
			}
		},
	},
	{
		Name: "setpwd",
		Help: "PASSWORD -- change the module password",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("PASSWORD required"))
				return
			}
			pwd, err := strconv.ParseUint(c.Args[0], 0, 32)
			if err != nil {
				c.Err(fmt.Errorf("invalid password %q", c.Args[0]))
				return
			}
			s := sessionFrom(c)
			if err := s.sensor.SetPassword(context.Background(), uint32(pwd)); err != nil {
				c.Err(err)
				return
			}
			c.Printf("password changed, start future sessions with -password 0x%08X\n", uint32(pwd))
		},
	},
	{
		Name: "setaddr",
		Help: "ADDRESS -- change the module address",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("ADDRESS required"))
				return
			}
			addr, err := strconv.ParseUint(c.Args[0], 0, 32)
			if err != nil {
				c.Err(fmt.Errorf("invalid address %q", c.Args[0]))
				return
			}
			s := sessionFrom(c)
			if err := s.sensor.SetAddress(context.Background(), uint32(addr)); err != nil {
				c.Err(err)
				return
			}
			c.Printf("address changed, start future sessions with -address 0x%08X\n", uint32(addr))
		},
	},
	{
		Name: "setbaud",
		Help: "BAUD -- change the module and port baud rate",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("BAUD required"))
				return
			}
			baud, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("invalid baud rate %q", c.Args[0]))
				return
			}
			s := sessionFrom(c)
			if err := s.sensor.SetBaudRate(context.Background(), baud); err != nil {
				c.Err(err)
				return
			}
			c.Printf("baud rate changed to %d\n", baud)
		},
	},
	{
		Name: "setsecurity",
		Help: "LEVEL -- change the match threshold (1-5)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("LEVEL required"))
				return
			}
			level, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("invalid level %q", c.Args[0]))
				return
			}
			s := sessionFrom(c)
			if err := s.sensor.SetSecurityLevel(context.Background(), level); err != nil {
				c.Err(err)
				return
			}
			c.Printf("security level set to %d\n", level)
		},
	},
	{
		Name: "setpacket",
		Help: "SIZE -- change the data packet size (32, 64, 128 or 256)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("SIZE required"))
				return
			}
			size, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("invalid size %q", c.Args[0]))
				return
			}
			s := sessionFrom(c)
			if err := s.sensor.SetPacketSize(context.Background(), size); err != nil {
				c.Err(err)
				return
			}
			c.Printf("packet size set to %d bytes\n", size)
		},
	},
	{
		Name: "reset",
		Help: "soft-reset the module",
		Func: func(c *ishell.Context) {
			s := sessionFrom(c)
			if err := s.sensor.SoftReset(context.Background()); err != nil {
				c.Err(err)
				return
			}
			c.Println("module reset")
		},
	},
	{
		Name: "handshake",
		Help: "check the module answers on the line",
		Func: func(c *ishell.Context) {
			s := sessionFrom(c)
			if err := s.sensor.Handshake(context.Background()); err != nil {
				c.Err(err)
				return
			}
			c.Println("module answered")
		},
	},
}
