// Package monitor periodically samples an INA3221 and publishes per-rail
// readings as retained bus messages.
//
// One Service owns one *ina3221.Device and runs a single worker goroutine;
// the driver's read-modify-write mutators are never issued from more than one
// goroutine (the driver has no internal locking).
package monitor

import (
	"context"
	"math"
	"time"

	"powermon-go/bus"
	"powermon-go/drivers/ina3221"
	"powermon-go/errcode"
	"powermon-go/types"
	"powermon-go/x/mathx"
	"powermon-go/x/timex"
)

var topicConfigMonitor = bus.Topic{"config", "monitor"}

// Rail binds a chip channel to a published rail name.
type Rail struct {
	Channel ina3221.Channel
	Name    string
}

// Params defines wiring and behaviour for one monitor instance.
type Params struct {
	Bus      string        // label only, published in rail info
	Interval time.Duration // sampling period; 0 => 1s
	Avg      ina3221.AveragingMode
	Rails    []Rail // channels without a rail entry stay disabled
}

type Service struct {
	dev    *ina3221.Device
	params Params
}

func New(dev *ina3221.Device, p Params) *Service {
	if p.Interval <= 0 {
		p.Interval = time.Second
	}
	return &Service{dev: dev, params: p}
}

// Start validates params and launches the worker goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if s.dev == nil || len(s.params.Rails) == 0 {
		return errcode.InvalidParams
	}
	for _, r := range s.params.Rails {
		if r.Name == "" || r.Channel < ina3221.Channel1 || r.Channel > ina3221.Channel3 {
			return errcode.InvalidParams
		}
	}
	go s.serviceLoop(ctx, conn)
	return nil
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigMonitor)
	defer conn.Unsubscribe(cfgSub)

	s.configureChip(conn)
	s.publishInfo(conn)
	s.sampleAndPublish(conn)

	tick := time.NewTicker(s.params.Interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("Info: monitor service stopping")
			return
		case <-tick.C:
			s.sampleAndPublish(conn)
		case msg := <-cfgSub.Channel():
			if m, ok := msg.Payload.(map[string]any); ok {
				if iv, ok := m["interval_ms"]; ok {
					if ms, ok := iv.(float64); ok && ms > 0 {
						tick.Reset(time.Duration(ms) * time.Millisecond)
						println("Info:", "monitor interval set to", int64(ms), "ms")
					}
				}
			}
		}
	}
}

// configureChip brings the device into continuous conversion with exactly the
// configured channels enabled. Failures degrade to status messages; sampling
// will keep retrying on its own.
func (s *Service) configureChip(conn *bus.Connection) {
	if err := s.dev.DisableAllChannels(); err != nil {
		s.publishStatusAll(conn, errcode.MapDriverErr(err))
		return
	}
	for _, r := range s.params.Rails {
		if err := s.dev.EnableChannel(r.Channel); err != nil {
			s.publishStatus(conn, r.Name, errcode.MapDriverErr(err))
		}
	}
	if err := s.dev.SetAveragingMode(s.params.Avg); err != nil {
		s.publishStatusAll(conn, errcode.MapDriverErr(err))
	}
	if err := s.dev.SetPowerMode(ina3221.ModeContinuousShuntBus); err != nil {
		s.publishStatusAll(conn, errcode.MapDriverErr(err))
	}
}

func (s *Service) publishInfo(conn *bus.Connection) {
	info := types.MonitorInfo{Driver: "ina3221", Addr: s.dev.Address()}
	if id, err := s.dev.ManufacturerID(); err == nil {
		info.ManufacturerID = id
	}
	if id, err := s.dev.DieID(); err == nil {
		info.DieID = id
	}
	conn.Publish(conn.NewMessage(bus.T("power", "monitor", "info"), info, true))

	for _, r := range s.params.Rails {
		ri := types.RailInfo{
			Channel:    uint8(r.Channel),
			Bus:        s.params.Bus,
			Addr:       s.dev.Address(),
			Shunt_mOhm: s.dev.ShuntResistance_mOhm(r.Channel),
		}
		conn.Publish(conn.NewMessage(bus.T("power", "rail", r.Name, "info"), ri, true))
	}
}

func (s *Service) sampleAndPublish(conn *bus.Connection) {
	for _, r := range s.params.Rails {
		shunt, err := s.dev.ShuntMicrovolts(r.Channel)
		if err != nil {
			s.publishStatus(conn, r.Name, errcode.MapDriverErr(err))
			continue
		}
		busmv, err := s.dev.BusMillivolts(r.Channel)
		if err != nil {
			s.publishStatus(conn, r.Name, errcode.MapDriverErr(err))
			continue
		}
		current := shunt / int32(s.dev.ShuntResistance_mOhm(r.Channel))

		// mV × mA = µW; keep mW within int32.
		power := mathx.Clamp(int64(busmv)*int64(current)/1000, math.MinInt32, math.MaxInt32)

		v := types.RailValue{
			Shunt_uV:   shunt,
			Bus_mV:     busmv,
			Current_mA: current,
			Power_mW:   int32(power),
			TS:         timex.NowMs(),
		}
		conn.Publish(conn.NewMessage(bus.T("power", "rail", r.Name, "value"), v, true))
		s.publishStatus(conn, r.Name, errcode.OK)
	}
}

func (s *Service) publishStatus(conn *bus.Connection, rail string, code errcode.Code) {
	st := types.RailStatus{TS: timex.NowMs()}
	if code != errcode.OK {
		st.Err = string(code)
	}
	conn.Publish(conn.NewMessage(bus.T("power", "rail", rail, "status"), st, true))
}

func (s *Service) publishStatusAll(conn *bus.Connection, code errcode.Code) {
	for _, r := range s.params.Rails {
		s.publishStatus(conn, r.Name, code)
	}
}
