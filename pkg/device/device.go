// Package device simulates a target: a debug-log region filled by a demo
// producer and served over a transport by the protocol engine.
package device

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rtecom/pkg/env"
	fx "github.com/robotalks/rtecom/pkg/framework"
	"github.com/robotalks/rtecom/pkg/link"
	"github.com/robotalks/rtecom/pkg/rtecom"
	"github.com/robotalks/rtecom/pkg/rtedbg"
	"github.com/robotalks/rtecom/pkg/transport"
)

// Simulated RAM exposed to raw memory commands.
const (
	MemoryBase = 0x20000000
	MemorySize = 0x10000
)

// Device is a simulated target.
type Device struct {
	Config *env.Config
	Region *rtedbg.Region
	Demo   *rtedbg.Demo
	Memory *rtecom.BufferMemory
}

// New creates a Device from config.
func New(conf *env.Config) *Device {
	d := &Device{
		Config: conf,
		Region: rtedbg.New(conf.BufferWords),
		Memory: rtecom.NewBufferMemory(MemoryBase, MemorySize),
	}
	d.Demo = &rtedbg.Demo{Region: d.Region, Interval: time.Second}
	return d
}

// HandlerConfig is the engine configuration of every connection.
func (d *Device) HandlerConfig() rtecom.Config {
	conf := d.Config.HandlerConfig()
	conf.Memory = d.Memory
	if len(conf.MemoryRanges) == 0 {
		conf.MemoryRanges = []rtecom.AddressRange{d.Memory.Range()}
	}
	return conf
}

// Serve runs the engine over port until ctx is done or the port fails.
// The port is closed on return.
func (d *Device) Serve(ctx context.Context, port io.ReadWriteCloser, loopback bool) error {
	var rw io.ReadWriteCloser = port
	if d.Config.SingleWire && loopback {
		rw = transport.SingleWire(rw)
	}
	if d.Config.Noise > 0 {
		rw = transport.WithLineErrors(rw, transport.RandomNoise(d.Config.Noise, time.Now().UnixNano()))
	}
	l := link.New(rw, d.Region, d.HandlerConfig())
	l.Watchdog.Timeout = d.Config.Timeout
	return fx.RunWithContextCloser(ctx, rw, func() error {
		return l.Run(ctx)
	})
}

// ServeListener serves every accepted connection.
func (d *Device) ServeListener(ctx context.Context, ln transport.Listener) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	return fx.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			glog.Infof("host connected to %s", ln.Addr())
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := d.Serve(ctx, conn, true)
				glog.Infof("host disconnected: %v", err)
			}()
		}
	})
}

// Run serves the Listen URL of the config. Listening transports accept
// hosts, others are opened and served once.
func (d *Device) Run(ctx context.Context) error {
	ln, err := transport.Listen(d.Config.Listen)
	if err == nil {
		glog.Infof("listening on %s", ln.Addr())
		return d.ServeListener(ctx, ln)
	}
	if _, unsupported := err.(*transport.UnsupportedSchemeError); !unsupported {
		return err
	}
	port, err := transport.Open(ctx, d.Config.Listen)
	if err != nil {
		return err
	}
	glog.Infof("serving %s", d.Config.Listen)
	return d.Serve(ctx, port, !transport.IsSerial(d.Config.Listen))
}
