// Package ina3221 provides a minimal TinyGo driver for the TI INA3221
// triple-channel shunt and bus voltage monitor.
//
// Design notes (datasheet references):
// • I2C, 16-bit big-endian registers; the write path carries only the low
//   nibble of the data low byte.
// • Default 7-bit address = 0x40 (A0 to GND).
// • Integer-only telemetry scaling (shunt 40 µV/LSB, bus 8 mV/LSB).
// • Field mutators are read-modify-write over two bus transactions; they are
//   not atomic against another writer on the same register. A Device has a
//   single logical owner and no internal locking.
package ina3221

import "tinygo.org/x/drivers"

// Config holds construction options. Zero-valued fields select the defaults,
// so a Device can never end up with a zero shunt resistor (the current
// calculation divides by it).
type Config struct {
	Address      uint16 // 7-bit address; 0 => AddressDefault
	ShuntR1_mOhm uint32 // channel 1 sense resistor, milliohm; 0 => 10
	ShuntR2_mOhm uint32 // channel 2; 0 => 10
	ShuntR3_mOhm uint32 // channel 3; 0 => 10
}

const shuntDefault_mOhm = 10

// Device wraps an I2C connection to an INA3221. It owns the bus handle until
// Release is called.
type Device struct {
	bus   drivers.I2C
	addr  uint16
	shunt [3]uint32 // milliohm, per channel

	// Fixed buffers to avoid per-call heap allocations.
	w [3]byte
	r [2]byte
}

// New creates a new INA3221 connection. The I2C bus must already be
// configured. This function only creates the Device object; it does not touch
// the device.
func New(bus drivers.I2C, cfg Config) *Device {
	d := &Device{
		bus:   bus,
		addr:  AddressDefault,
		shunt: [3]uint32{shuntDefault_mOhm, shuntDefault_mOhm, shuntDefault_mOhm},
	}
	d.Configure(cfg)
	return d
}

// Configure applies the non-zero fields of cfg. It performs no bus traffic.
func (d *Device) Configure(cfg Config) {
	if cfg.Address != 0 {
		d.addr = cfg.Address
	}
	if cfg.ShuntR1_mOhm != 0 {
		d.shunt[0] = cfg.ShuntR1_mOhm
	}
	if cfg.ShuntR2_mOhm != 0 {
		d.shunt[1] = cfg.ShuntR2_mOhm
	}
	if cfg.ShuntR3_mOhm != 0 {
		d.shunt[2] = cfg.ShuntR3_mOhm
	}
}

// Address returns the 7-bit bus address of the receiver.
func (d *Device) Address() uint16 { return d.addr }

// ShuntResistance_mOhm returns the configured sense resistor for ch.
func (d *Device) ShuntResistance_mOhm(ch Channel) uint32 {
	if !ch.valid() {
		return 0
	}
	return d.shunt[ch-1]
}

// Release returns ownership of the bus handle. The Device must not be used
// afterwards.
func (d *Device) Release() drivers.I2C {
	bus := d.bus
	d.bus = nil
	return bus
}

// Reset restores all registers to power-on defaults, equivalent to power
// cycling the chip. No verification read is performed; allow for the chip's
// post-reset settle time before the next operation.
func (d *Device) Reset() error {
	return d.writeWord(regConfig, cfgReset)
}

// updateConfig is the read-modify-write helper behind every configuration
// mutator: the masked field is replaced, all other bits are written back
// exactly as read. Two bus transactions, never cached.
func (d *Device) updateConfig(mask, val uint16) error {
	cur, err := d.readWord(regConfig)
	if err != nil {
		return err
	}
	return d.writeWord(regConfig, cur&^mask|val&mask)
}

// PowerMode reads the operating mode field. Reserved code 4 decodes to
// ModePowerDown.
func (d *Device) PowerMode() (OperatingMode, error) {
	v, err := d.readWord(regConfig)
	if err != nil {
		return ModePowerDown, err
	}
	return OperatingModeFromRaw(uint8(v & cfgModeMask)), nil
}

// SetPowerMode sets the operating mode field, preserving all other bits.
func (d *Device) SetPowerMode(m OperatingMode) error {
	return d.updateConfig(cfgModeMask, uint16(m))
}

// AveragingMode reads the sample averaging field.
func (d *Device) AveragingMode() (AveragingMode, error) {
	v, err := d.readWord(regConfig)
	if err != nil {
		return Avg1, err
	}
	return AveragingModeFromRaw(uint8(v >> cfgAvgShift)), nil
}

// SetAveragingMode sets the sample averaging field, preserving all other bits.
func (d *Device) SetAveragingMode(m AveragingMode) error {
	return d.updateConfig(cfgAvgMask, uint16(m)<<cfgAvgShift)
}

// EnableAllChannels sets all three channel enable bits.
func (d *Device) EnableAllChannels() error {
	return d.updateConfig(cfgChanMask, cfgChanMask)
}

// DisableAllChannels clears all three channel enable bits.
func (d *Device) DisableAllChannels() error {
	return d.updateConfig(cfgChanMask, 0)
}

// EnableChannel sets the enable bit for ch, leaving the other channels alone.
func (d *Device) EnableChannel(ch Channel) error {
	if !ch.valid() {
		return ErrInvalidChannel
	}
	bit := ch.enableBit()
	return d.updateConfig(bit, bit)
}

// DisableChannel clears the enable bit for ch, leaving the other channels
// alone.
func (d *Device) DisableChannel(ch Channel) error {
	if !ch.valid() {
		return ErrInvalidChannel
	}
	return d.updateConfig(ch.enableBit(), 0)
}
