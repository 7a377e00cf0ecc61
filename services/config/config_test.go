// config/config_test.go
package config

import (
	"context"
	"testing"
	"time"

	"powermon-go/bus"
)

func TestConfig_PublishEmbedded_RetainedPerKey(t *testing.T) {
	// Override lookup for this test.
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "host" {
			return nil, false
		}
		return []byte(`{
			"mode": "dev",
			"debug": true,
			"region": {"code": "eu"}
		}`), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	// Arrange bus and service.
	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewConfigService()

	// Start publisher with device ID in context.
	ctx := context.WithValue(context.Background(), CtxDeviceKey, "host")
	svc.Start(ctx, conn)

	type gotMsg struct {
		key string
		val any
	}

	// Subscribe; retained messages should arrive even after publish.
	sub := conn.Subscribe(bus.Topic{configPrefix, "#"})

	wantCount := 3 // mode, debug, region
	got := map[string]gotMsg{}

	deadline := time.Now().Add(600 * time.Millisecond)
	for len(got) < wantCount && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			if len(m.Topic) < 2 {
				t.Fatalf("unexpected topic length: %#v", m.Topic)
			}
			prefix, ok := m.Topic[0].(string)
			if !ok {
				t.Fatalf("topic[0] type %T, want string", m.Topic[0])
			}
			if prefix != configPrefix {
				t.Fatalf("unexpected prefix: %q", prefix)
			}
			key, ok := m.Topic[1].(string)
			if !ok {
				t.Fatalf("topic[1] type %T, want string", m.Topic[1])
			}
			got[key] = gotMsg{key: key, val: m.Payload}
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(got) != wantCount {
		t.Fatalf("expected %d retained messages, got %d (%v)", wantCount, len(got), got)
	}

	if v, ok := got["mode"]; !ok {
		t.Fatal("missing 'mode' message")
	} else if s, ok := v.val.(string); !ok || s != "dev" {
		t.Fatalf("mode payload = %#v, want \"dev\"", v.val)
	}
	if v, ok := got["debug"]; !ok {
		t.Fatal("missing 'debug' message")
	} else if b, ok := v.val.(bool); !ok || !b {
		t.Fatalf("debug payload = %#v, want true", v.val)
	}
	if v, ok := got["region"]; !ok {
		t.Fatal("missing 'region' message")
	} else if m, ok := v.val.(map[string]any); !ok || m["code"] != "eu" {
		t.Fatalf("region payload = %#v, want map with code=eu", v.val)
	}
}

func TestConfig_MissingDevice(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-config")
	svc := NewConfigService()

	// No device ID in context: nothing should be published.
	svc.Start(context.Background(), conn)

	sub := conn.Subscribe(bus.Topic{configPrefix, "#"})
	select {
	case m := <-sub.Channel():
		t.Fatalf("unexpected config message: %#v", m)
	case <-time.After(100 * time.Millisecond):
	}
}
