package main

import (
	"context"
	"time"

	"piicoinfo-go/bus"
	"piicoinfo-go/internal/platform"
	"piicoinfo-go/services/monitor"
	"piicoinfo-go/services/piico"
	"piicoinfo-go/types"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	out := platform.Console(types.ConsoleConfig{})

	reg, err := piico.New(platform.NewOpener(), types.DefaultBusConfig())
	if err != nil {
		// Keep the error on the console; a reset is the only way out.
		for {
			println("Error:", err.Error())
			time.Sleep(5 * time.Second)
		}
	}

	connected := reg.Connected()
	println(piico.FormatDecimal(connected))
	println(piico.FormatHex(connected))

	ctx := context.Background()
	b := bus.NewBus(4)
	ui := b.NewConnection("console")

	ui.Publish(ui.NewMessage(monitor.TopicConfig, types.MonitorConfig{
		Interval: types.DefaultMonitorInterval,
		Mode:     types.ModeWhat,
	}, true))

	if err := monitor.New(reg).Start(ctx, b.NewConnection("piico")); err != nil {
		println("Error: monitor start:", err.Error())
		return
	}

	reports := ui.Subscribe(monitor.TopicReport)
	for msg := range reports.Channel() {
		recs, ok := msg.Payload.([]types.Record)
		if !ok {
			continue
		}
		println("--")
		if err := piico.Render(out, recs); err != nil {
			println("Error: console:", err.Error())
		}
	}
}
