package heartbeat

import (
	"context"
	"time"

	"powermon-go/bus"
	"powermon-go/x/timex"
)

var (
	topicConfigHeartbeat = bus.Topic{"config", "heartbeat"}
	topicTick            = bus.Topic{"heartbeat", "tick"}
)

// Tick is published retained on heartbeat/tick. Uptime watchers key off Seq.
type Tick struct {
	Seq uint32 `json:"seq"`
	TS  int64  `json:"ts_ms"`
}

type Service struct{}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)

	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	var seq uint32

	// loop until context is cancelled, respond to tick and config changes
	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case t := <-tick.C:
			seq++
			println("Info:", t.Format("15:04:05"), "Heartbeat", seq)
			conn.Publish(conn.NewMessage(topicTick, Tick{Seq: seq, TS: timex.NowMs()}, true))
		case msg := <-cfgSub.Channel():
			// Change tick interval if needed
			if m, ok := msg.Payload.(map[string]any); ok {
				if iv, ok := m["interval"]; ok {
					if interval, ok := iv.(float64); ok && interval > 0 {
						tick.Reset(time.Duration(interval * float64(time.Second)))
						println("Info:", "Heartbeat interval set to", int64(interval*1000), "ms")
					}
				}
			}
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
