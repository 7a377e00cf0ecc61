// cmd/railtest/main.go
//
// Host-side exercise of the power monitor stack: a simulated INA3221 on a
// fake two-wire bus, the config and heartbeat services, and the monitor
// service publishing rail readings. Run it on a workstation to watch the
// full pipeline without hardware.
package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"powermon-go/bus"
	"powermon-go/drivers/ina3221"
	"powermon-go/services/config"
	"powermon-go/services/heartbeat"
	"powermon-go/services/monitor"
	"powermon-go/types"
	"powermon-go/x/conv"
)

const runFor = 10 * time.Second

var rails = []monitor.Rail{
	{Channel: ina3221.Channel1, Name: "cm5"},
	{Channel: ina3221.Channel2, Name: "m2"},
	{Channel: ina3221.Channel3, Name: "fan"},
}

// ---------- Simulated chip ----------

// simI2C answers like an INA3221 register file, with measurement registers
// that wander a little every read so the output is not flat.
type simI2C struct {
	mu   sync.Mutex
	regs map[byte]uint16
	step int16
}

func newSimI2C() *simI2C {
	return &simI2C{regs: map[byte]uint16{
		0x01: 0x07F8, // ch1 shunt: 10200 uV
		0x02: 0x0A00, // ch1 bus: 2560 mV
		0x03: 0x0320, // ch2 shunt: 4000 uV
		0x04: 0x1900, // ch2 bus: 6400 mV
		0x05: 0x0190, // ch3 shunt: 2000 uV
		0x06: 0x0C80, // ch3 bus: 3200 mV
		0xFE: 0x5449,
		0xFF: 0x3220,
	}}
}

func (s *simI2C) Tx(addr uint16, w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case len(w) == 1 && len(r) == 2:
		v := s.regs[w[0]]
		if w[0] >= 0x01 && w[0] <= 0x06 {
			s.step++
			v = uint16(int16(v) + (s.step%5-2)*8)
			s.regs[w[0]] = v
		}
		r[0] = byte(v >> 8)
		r[1] = byte(v)
	case len(w) == 3 && len(r) == 0:
		s.regs[w[0]] = uint16(w[1])<<8 | uint16(w[2])
	}
	return nil
}

// ---------- Output ----------

func hex16(n uint16) string {
	var buf [4]byte
	return string(conv.U16Hex(buf[:], n))
}

func printValues(conn *bus.Connection, done <-chan struct{}) {
	sub := conn.Subscribe(bus.T("power", "rail", "+", "value"))
	info := conn.Subscribe(bus.T("power", "monitor", "info"))
	defer conn.Unsubscribe(sub)
	defer conn.Unsubscribe(info)

	for {
		select {
		case <-done:
			return
		case m := <-info.Channel():
			if mi, ok := m.Payload.(types.MonitorInfo); ok {
				fmt.Printf("monitor: %s man=0x%s die=0x%s addr=0x%02X\n",
					mi.Driver, hex16(mi.ManufacturerID), hex16(mi.DieID), mi.Addr)
			}
		case m := <-sub.Channel():
			name, _ := m.Topic[2].(string)
			if v, ok := m.Payload.(types.RailValue); ok {
				fmt.Printf("%-6s %6d mV %6d mA %6d mW (shunt %d uV)\n",
					name, v.Bus_mV, v.Current_mA, v.Power_mW, v.Shunt_uV)
			}
		}
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = context.WithValue(ctx, config.CtxDeviceKey, "host")

	b := bus.NewBus(64)

	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	hb := &heartbeat.Service{}
	if err := hb.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		println("Error: heartbeat:", err.Error())
		return
	}

	dev := ina3221.New(newSimI2C(), ina3221.Config{})
	mon := monitor.New(dev, monitor.Params{
		Bus:      "sim0",
		Interval: 500 * time.Millisecond,
		Avg:      ina3221.Avg16,
		Rails:    rails,
	})
	if err := mon.Start(ctx, b.NewConnection("monitor")); err != nil {
		println("Error: monitor:", err.Error())
		return
	}

	done := make(chan struct{})
	go printValues(b.NewConnection("railtest"), done)

	time.Sleep(runFor)
	close(done)
	cancel()
	time.Sleep(50 * time.Millisecond)
	println("railtest done")
}
