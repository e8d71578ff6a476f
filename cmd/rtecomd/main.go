package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rtecom/pkg/device"
	"github.com/robotalks/rtecom/pkg/env"
	fx "github.com/robotalks/rtecom/pkg/framework"
)

var (
	demoInterval = time.Second
	resetCause   uint
	pressEvery   int
)

func init() {
	env.SetupFlags()
	flag.DurationVar(&demoInterval, "demo-interval", demoInterval, "Demo log interval, 0 disables the demo")
	flag.UintVar(&resetCause, "reset-cause", resetCause, "Reset cause logged by the demo on start")
	flag.IntVar(&pressEvery, "press-every", pressEvery, "Simulate a pushbutton press every N demo ticks, 0 disables")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := env.MustResolve()
	dev := device.New(conf)
	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("device", dev))
	if demoInterval > 0 {
		dev.Demo.Interval = demoInterval
		dev.Demo.ResetCause = uint32(resetCause)
		dev.Demo.PressEvery = pressEvery
		runner.Go(fx.NamedRun("demo", dev.Demo))
	}
	glog.Infof("device %s, %d words buffer, single-wire=%v", conf.Device, conf.BufferWords, conf.SingleWire)
	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}
