package ina3221

import (
	"errors"
	"sync"
	"testing"

	"tinygo.org/x/drivers"
)

// Compile-time check.
var _ drivers.I2C = (*fakeINA3221)(nil)

// Register-map fake speaking the chip's wire protocol: one-byte write plus
// two-byte read returns the register big-endian; three-byte write stores
// exactly the transmitted bytes and keeps the raw payload for framing checks.
type fakeINA3221 struct {
	mu     sync.Mutex
	regs   map[byte]uint16
	writes [][]byte
	fail   error // when set, every transaction fails with it
}

func newFake() *fakeINA3221 {
	return &fakeINA3221{regs: map[byte]uint16{
		regManufacturerID: 0x5449,
		regDieID:          0x3220,
	}}
}

func (f *fakeINA3221) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail != nil {
		return f.fail
	}
	switch {
	case len(w) == 1 && len(r) == 2:
		v := f.regs[w[0]]
		r[0] = byte(v >> 8)
		r[1] = byte(v)
		return nil
	case len(w) == 3 && len(r) == 0:
		cp := append([]byte(nil), w...)
		f.writes = append(f.writes, cp)
		f.regs[w[0]] = uint16(w[1])<<8 | uint16(w[2])
		return nil
	}
	return errors.New("fake: unexpected transaction shape")
}

func (f *fakeINA3221) lastWrite(t *testing.T) []byte {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		t.Fatal("no write transaction observed")
	}
	return f.writes[len(f.writes)-1]
}

// nackError is a classified transport failure.
type nackError struct{}

func (nackError) Error() string              { return "i2c: no acknowledge" }
func (nackError) BusErrorKind() BusErrorKind { return BusErrNoAcknowledge }

func TestConfigDefaults(t *testing.T) {
	d := New(newFake(), Config{})
	if d.Address() != AddressDefault {
		t.Fatalf("default address = %#x, want %#x", d.Address(), AddressDefault)
	}
	for ch := Channel1; ch <= Channel3; ch++ {
		if got := d.ShuntResistance_mOhm(ch); got != 10 {
			t.Fatalf("channel %d default shunt = %d mOhm, want 10", ch, got)
		}
	}

	d = New(newFake(), Config{Address: 0x41, ShuntR2_mOhm: 25})
	if d.Address() != 0x41 {
		t.Fatalf("address = %#x, want 0x41", d.Address())
	}
	if got := d.ShuntResistance_mOhm(Channel2); got != 25 {
		t.Fatalf("channel 2 shunt = %d mOhm, want 25", got)
	}
	if got := d.ShuntResistance_mOhm(Channel1); got != 10 {
		t.Fatalf("channel 1 shunt = %d mOhm, want 10", got)
	}
}

func TestWriteFraming(t *testing.T) {
	bus := newFake()
	d := New(bus, Config{})

	// Only the low nibble of the low byte goes on the wire.
	if err := d.writeWord(regConfig, 0x1234); err != nil {
		t.Fatalf("writeWord: %v", err)
	}
	got := bus.lastWrite(t)
	want := []byte{0x00, 0x12, 0x04}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("write payload = %#v, want %#v", got, want)
		}
	}
}

func TestReset(t *testing.T) {
	bus := newFake()
	d := New(bus, Config{})

	if err := d.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n := len(bus.writes); n != 1 {
		t.Fatalf("reset issued %d writes, want 1", n)
	}
	got := bus.lastWrite(t)
	want := []byte{0x00, 0x80, 0x00}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reset payload = %#v, want %#v", got, want)
		}
	}
}

func TestPowerModeDecode(t *testing.T) {
	bus := newFake()
	d := New(bus, Config{})

	want := map[uint16]OperatingMode{
		0: ModePowerDown,
		1: ModeOneshotShunt,
		2: ModeOneshotBus,
		3: ModeOneshotShuntBus,
		4: ModePowerDown, // reserved alias
		5: ModeContinuousShunt,
		6: ModeContinuousBus,
		7: ModeContinuousShuntBus,
	}
	for raw, mode := range want {
		bus.regs[regConfig] = raw
		got, err := d.PowerMode()
		if err != nil {
			t.Fatalf("raw %d: %v", raw, err)
		}
		if got != mode {
			t.Fatalf("raw %d decoded to %v, want %v", raw, got, mode)
		}
	}
}

// Preservation patterns are confined to bits that survive the low-nibble
// write framing: the high byte and bits 3:0.
func TestSetPowerModeRoundTrip(t *testing.T) {
	bus := newFake()
	d := New(bus, Config{})

	const pattern = 0x5208 // bits 14,12,9,3
	modes := []OperatingMode{
		ModePowerDown, ModeOneshotShunt, ModeOneshotBus, ModeOneshotShuntBus,
		ModeContinuousShunt, ModeContinuousBus, ModeContinuousShuntBus,
	}
	for _, m := range modes {
		bus.regs[regConfig] = pattern
		if err := d.SetPowerMode(m); err != nil {
			t.Fatalf("set %v: %v", m, err)
		}
		got, err := d.PowerMode()
		if err != nil {
			t.Fatalf("get after set %v: %v", m, err)
		}
		if got != m {
			t.Fatalf("round trip: got %v, want %v", got, m)
		}
		if rest := bus.regs[regConfig] &^ uint16(cfgModeMask); rest != pattern {
			t.Fatalf("set %v disturbed other bits: %#04x, want %#04x", m, rest, pattern)
		}
	}
}

func TestSetAveragingModeRoundTrip(t *testing.T) {
	bus := newFake()
	d := New(bus, Config{})

	const pattern = 0x500B // bits 14,12,3,1,0
	for raw := uint8(0); raw < 8; raw++ {
		m := AveragingModeFromRaw(raw)
		bus.regs[regConfig] = pattern
		if err := d.SetAveragingMode(m); err != nil {
			t.Fatalf("set %v: %v", m, err)
		}
		got, err := d.AveragingMode()
		if err != nil {
			t.Fatalf("get after set %v: %v", m, err)
		}
		if got != m {
			t.Fatalf("round trip: got %v, want %v", got, m)
		}
		if field := bus.regs[regConfig] & cfgAvgMask >> cfgAvgShift; field != uint16(raw) {
			t.Fatalf("avg field = %d, want %d", field, raw)
		}
		if rest := bus.regs[regConfig] &^ uint16(cfgAvgMask); rest != pattern {
			t.Fatalf("set %v disturbed other bits: %#04x, want %#04x", m, rest, pattern)
		}
	}
}

func TestChannelEnableBits(t *testing.T) {
	bus := newFake()
	d := New(bus, Config{})

	// EnableChannel(2) sets bit 13 and leaves bits 14 and 12 untouched,
	// whatever their prior state.
	for _, prior := range []uint16{0x0000, 0x4000, 0x1000, 0x5000} {
		bus.regs[regConfig] = prior
		if err := d.EnableChannel(Channel2); err != nil {
			t.Fatalf("enable ch2: %v", err)
		}
		if got, want := bus.regs[regConfig], prior|1<<13; got != want {
			t.Fatalf("prior %#04x: config = %#04x, want %#04x", prior, got, want)
		}
	}

	bus.regs[regConfig] = 0x7208 // all channels on, plus bits 9 and 3
	if err := d.DisableChannel(Channel1); err != nil {
		t.Fatalf("disable ch1: %v", err)
	}
	if got := bus.regs[regConfig]; got != 0x3208 {
		t.Fatalf("config after disable ch1 = %#04x, want 0x3208", got)
	}

	if err := d.DisableAllChannels(); err != nil {
		t.Fatalf("disable all: %v", err)
	}
	if got := bus.regs[regConfig]; got != 0x0208 {
		t.Fatalf("config after disable all = %#04x, want 0x0208", got)
	}

	if err := d.EnableAllChannels(); err != nil {
		t.Fatalf("enable all: %v", err)
	}
	if got := bus.regs[regConfig]; got != 0x7208 {
		t.Fatalf("config after enable all = %#04x, want 0x7208", got)
	}
}

func TestInvalidChannel(t *testing.T) {
	d := New(newFake(), Config{})
	if err := d.EnableChannel(Channel(0)); !errors.Is(err, ErrInvalidChannel) {
		t.Fatalf("enable channel 0: %v, want ErrInvalidChannel", err)
	}
	if _, err := d.ShuntMicrovolts(Channel(4)); !errors.Is(err, ErrInvalidChannel) {
		t.Fatalf("shunt channel 4: %v, want ErrInvalidChannel", err)
	}
}

func TestIdentification(t *testing.T) {
	bus := newFake()
	d := New(bus, Config{})

	id, err := d.ManufacturerID()
	if err != nil || id != 0x5449 {
		t.Fatalf("manufacturer id = %#04x, %v", id, err)
	}
	die, err := d.DieID()
	if err != nil || die != 0x3220 {
		t.Fatalf("die id = %#04x, %v", die, err)
	}
	if !d.Connected() {
		t.Fatal("Connected() = false for a responding chip")
	}

	bus.regs[regManufacturerID] = 0xBEEF
	if d.Connected() {
		t.Fatal("Connected() = true for a foreign chip")
	}
}

func TestTransportErrorClassification(t *testing.T) {
	bus := newFake()
	bus.fail = nackError{}
	d := New(bus, Config{})

	_, err := d.PowerMode()
	if err == nil {
		t.Fatal("expected transport error")
	}
	var de *Error
	if !errors.As(err, &de) {
		t.Fatalf("error type %T, want *Error", err)
	}
	if de.Class != ClassTransport || de.Kind != BusErrNoAcknowledge {
		t.Fatalf("class/kind = %d/%v, want transport/no_ack", de.Class, de.Kind)
	}
	if !errors.Is(err, nackError{}) {
		t.Fatal("underlying bus error not reachable via Unwrap")
	}

	// Mutators fail the same way, and an unclassified cause maps to
	// unspecified.
	bus.fail = errors.New("plain failure")
	err = d.SetPowerMode(ModeContinuousShuntBus)
	if !errors.As(err, &de) || de.Kind != BusErrUnspecified {
		t.Fatalf("unclassified failure: %v", err)
	}
}

func TestRelease(t *testing.T) {
	bus := newFake()
	d := New(bus, Config{})
	if got := d.Release(); got != drivers.I2C(bus) {
		t.Fatal("Release did not return the original bus handle")
	}
}
