package rtecom

import (
	"fmt"
	"os"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rtecom/pkg/cli/sh"
	"github.com/robotalks/rtecom/pkg/host"
	"github.com/robotalks/rtecom/pkg/rtecom"
	"github.com/robotalks/rtecom/pkg/rtedbg"
)

// parseArgs parses exactly n numeric arguments.
func parseArgs(c *ishell.Context, n int) ([]uint32, bool) {
	if len(c.Args) != n {
		c.Err(fmt.Errorf("%d arguments expected", n))
		return nil, false
	}
	vals := make([]uint32, n)
	for i, arg := range c.Args {
		v, err := sh.ParseUint32(arg)
		if err != nil {
			c.Err(err)
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

func ack(c *ishell.Context, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	sh.Output(c, "OK", "OK")
}

func dump(c *ishell.Context, address uint32, data []byte, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	sh.Output(c, data, Dump(address, data))
}

// writeMemory builds the commands writing 32, 16 or 8 bits.
func writeMemory(fn func(*host.Client, *ishell.Context, uint32, uint32) error) func(*ishell.Context) {
	return sh.MustBeConnected(func(c *ishell.Context) {
		args, ok := parseArgs(c, 2)
		if !ok {
			return
		}
		ack(c, fn(sh.Client(c), c, args[0], args[1]))
	})
}

var (
	// HeaderCmd reads the region header.
	HeaderCmd = ishell.Cmd{
		Name:    "header",
		Aliases: []string{"hdr"},
		Help:    "read the debug-log region header",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ctx, cancel := sh.RequestContext()
			defer cancel()
			h, err := sh.Client(c).ReadHeader(ctx)
			if err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, h, h.String())
		}),
	}

	// ReadCmd reads region bytes.
	ReadCmd = ishell.Cmd{
		Name:    "read",
		Aliases: []string{"r"},
		Help:    "OFFSET SIZE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			args, ok := parseArgs(c, 2)
			if !ok {
				return
			}
			ctx, cancel := sh.RequestContext()
			defer cancel()
			data, err := sh.Client(c).ReadRegion(ctx, args[0], args[1])
			dump(c, args[0], data, err)
		}),
	}

	// WriteCmd writes a header word.
	WriteCmd = ishell.Cmd{
		Name:    "write",
		Aliases: []string{"w"},
		Help:    "INDEX VALUE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			args, ok := parseArgs(c, 2)
			if !ok {
				return
			}
			ctx, cancel := sh.RequestContext()
			defer cancel()
			ack(c, sh.Client(c).WriteWord(ctx, int(args[0]), args[1]))
		}),
	}

	// FilterCmd shows or sets the message filter.
	FilterCmd = ishell.Cmd{
		Name:    "filter",
		Aliases: []string{"f"},
		Help:    "[VALUE]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ctx, cancel := sh.RequestContext()
			defer cancel()
			if len(c.Args) == 0 {
				h, err := sh.Client(c).ReadHeader(ctx)
				if err != nil {
					c.Err(err)
					return
				}
				sh.Output(c, h.Filter, fmt.Sprintf("0x%08x", h.Filter))
				return
			}
			args, ok := parseArgs(c, 1)
			if !ok {
				return
			}
			ack(c, sh.Client(c).SetFilter(ctx, args[0]))
		}),
	}

	// FreezeCmd stops logging.
	FreezeCmd = ishell.Cmd{
		Name: "freeze",
		Help: "stop logging, saving the filter",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ctx, cancel := sh.RequestContext()
			defer cancel()
			ack(c, sh.Client(c).Freeze(ctx))
		}),
	}

	// ResumeCmd resumes logging.
	ResumeCmd = ishell.Cmd{
		Name: "resume",
		Help: "restore the filter saved by freeze",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ctx, cancel := sh.RequestContext()
			defer cancel()
			ack(c, sh.Client(c).Resume(ctx))
		}),
	}

	// LogCmd prints the messages logged by the simulated demo.
	LogCmd = ishell.Cmd{
		Name:    "log",
		Aliases: []string{"l"},
		Help:    "decode the messages of the demo device",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ctx, cancel := sh.RequestContext()
			defer cancel()
			client := sh.Client(c)
			h, err := client.ReadHeader(ctx)
			if err != nil {
				c.Err(err)
				return
			}
			if h.LastIndex == 0 {
				sh.Output(c, []Entry{}, "empty")
				return
			}
			buf, err := client.ReadRegion(ctx, rtedbg.HeaderSize, h.LastIndex*4)
			if err != nil {
				c.Err(err)
				return
			}
			entries := DecodeEntries(buf, int(h.LastIndex), DemoArgWords)
			var text string
			for n, e := range entries {
				if n > 0 {
					text += "\n"
				}
				text += fmt.Sprintf("%5d fmt=%-4d ts=%-5d %x", e.Index, e.FormatID, e.Timestamp, e.Args)
			}
			sh.Output(c, entries, text)
		}),
	}

	// SnapshotCmd saves the region into a file.
	SnapshotCmd = ishell.Cmd{
		Name:    "snapshot",
		Aliases: []string{"snap"},
		Help:    "FILE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("file name expected"))
				return
			}
			ctx, cancel := sh.RequestContext()
			defer cancel()
			s, err := sh.Client(c).Snapshot(ctx, sh.ShellFrom(c).Config.Device, true)
			if err != nil {
				c.Err(err)
				return
			}
			f, err := os.Create(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			defer f.Close()
			if err := host.SaveSnapshot(f, s); err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, host.SnapshotHeader(s), fmt.Sprintf("%d bytes saved", len(s.Data)))
		}),
	}

	// ShowCmd prints a saved snapshot.
	ShowCmd = ishell.Cmd{
		Name: "show",
		Help: "FILE",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("file name expected"))
				return
			}
			f, err := os.Open(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			defer f.Close()
			s, err := host.LoadSnapshot(f)
			if err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, s, fmt.Sprintf("device %s, %d bytes\n%v", s.Device, len(s.Data), host.SnapshotHeader(s)))
		},
	}

	// MemReadCmd reads raw memory.
	MemReadCmd = ishell.Cmd{
		Name:    "mem.read",
		Aliases: []string{"mr"},
		Help:    "ADDRESS SIZE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			args, ok := parseArgs(c, 2)
			if !ok {
				return
			}
			ctx, cancel := sh.RequestContext()
			defer cancel()
			data, err := sh.Client(c).ReadMemory(ctx, args[0], args[1])
			dump(c, args[0], data, err)
		}),
	}

	// MemWrite32Cmd writes a word.
	MemWrite32Cmd = ishell.Cmd{
		Name: "mem.w32",
		Help: "ADDRESS VALUE",
		Func: writeMemory(func(client *host.Client, c *ishell.Context, address, value uint32) error {
			ctx, cancel := sh.RequestContext()
			defer cancel()
			return client.Write32(ctx, address, value)
		}),
	}

	// MemWrite16Cmd writes a half word.
	MemWrite16Cmd = ishell.Cmd{
		Name: "mem.w16",
		Help: "ADDRESS VALUE",
		Func: writeMemory(func(client *host.Client, c *ishell.Context, address, value uint32) error {
			ctx, cancel := sh.RequestContext()
			defer cancel()
			return client.Write16(ctx, address, uint16(value))
		}),
	}

	// MemWrite8Cmd writes a byte.
	MemWrite8Cmd = ishell.Cmd{
		Name: "mem.w8",
		Help: "ADDRESS VALUE",
		Func: writeMemory(func(client *host.Client, c *ishell.Context, address, value uint32) error {
			ctx, cancel := sh.RequestContext()
			defer cancel()
			return client.Write8(ctx, address, uint8(value))
		}),
	}

	// RawCmd sends any request.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "COMMAND ADDRESS DATA RESPONSE_SIZE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			args, ok := parseArgs(c, 4)
			if !ok {
				return
			}
			if args[0] > 0xff {
				c.Err(fmt.Errorf("command must be a byte"))
				return
			}
			ctx, cancel := sh.RequestContext()
			defer cancel()
			req := rtecom.Request{Command: rtecom.Command(args[0]), Address: args[1], Data: args[2]}
			data, err := sh.Client(c).Do(ctx, req, int(args[3]))
			dump(c, 0, data, err)
		}),
	}
)

func init() {
	sh.AddCmds(
		&HeaderCmd,
		&ReadCmd,
		&WriteCmd,
		&FilterCmd,
		&FreezeCmd,
		&ResumeCmd,
		&LogCmd,
		&SnapshotCmd,
		&ShowCmd,
		&MemReadCmd,
		&MemWrite32Cmd,
		&MemWrite16Cmd,
		&MemWrite8Cmd,
		&RawCmd,
	)
}
