package main

import (
	"context"
	"time"

	"powermon-go/bus"
	"powermon-go/services/config"
	"powermon-go/services/heartbeat"
)

// Default firmware entry: bus, config and heartbeat only. Board-specific
// builds wire the INA3221 monitor on top of this (see cmd/railtest for the
// host-side equivalent with a simulated chip).
func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, "host")
	b := bus.NewBus(32)

	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	hb := &heartbeat.Service{}
	if err := hb.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		println("Error: heartbeat:", err.Error())
		return
	}

	select {}
}
