package ina3221

import (
	"testing"
	"time"
)

func TestOperatingModeFromRawTotal(t *testing.T) {
	want := [8]OperatingMode{
		ModePowerDown, ModeOneshotShunt, ModeOneshotBus, ModeOneshotShuntBus,
		ModePowerDown, // reserved code 4
		ModeContinuousShunt, ModeContinuousBus, ModeContinuousShuntBus,
	}
	for raw := uint8(0); raw < 8; raw++ {
		if got := OperatingModeFromRaw(raw); got != want[raw] {
			t.Fatalf("raw %d -> %v, want %v", raw, got, want[raw])
		}
	}
	// Out-of-range input only uses the low three bits.
	if got := OperatingModeFromRaw(0xFC); got != ModePowerDown {
		t.Fatalf("raw 0xFC -> %v, want power_down", got)
	}
}

func TestAveragingModeSamples(t *testing.T) {
	want := [8]uint16{1, 4, 16, 64, 128, 256, 512, 1024}
	for raw := uint8(0); raw < 8; raw++ {
		m := AveragingModeFromRaw(raw)
		if uint8(m) != raw {
			t.Fatalf("raw %d -> mode %d", raw, m)
		}
		if got := m.Samples(); got != want[raw] {
			t.Fatalf("mode %d samples = %d, want %d", raw, got, want[raw])
		}
	}
}

func TestConversionTimeDuration(t *testing.T) {
	want := [8]time.Duration{
		140 * time.Microsecond, 204 * time.Microsecond, 332 * time.Microsecond,
		588 * time.Microsecond, 1100 * time.Microsecond, 2116 * time.Microsecond,
		4156 * time.Microsecond, 8244 * time.Microsecond,
	}
	for raw := uint8(0); raw < 8; raw++ {
		ct := ConversionTimeFromRaw(raw)
		if got := ct.Duration(); got != want[raw] {
			t.Fatalf("code %d duration = %v, want %v", raw, got, want[raw])
		}
	}
}

func TestOperatingModeString(t *testing.T) {
	if s := ModeContinuousShuntBus.String(); s != "continuous_shunt_bus" {
		t.Fatalf("String() = %q", s)
	}
	if s := OperatingMode(4).String(); s != "power_down" {
		t.Fatalf("reserved mode String() = %q", s)
	}
}
