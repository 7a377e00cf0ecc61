package ina3221

// Telemetry scaling. Shunt and bus measurement registers hold a signed 13-bit
// value in the top bits; the bottom three bits always read zero and are
// discarded with an arithmetic shift so the sign survives. The summation
// register is signed 14-bit with one zero bit at the bottom.
const (
	shuntLSB_uV = 40 // µV per shunt LSB
	busLSB_mV   = 8  // mV per bus LSB
)

func decodeShunt(raw int16) int32 { return int32(raw>>3) * shuntLSB_uV }

// ShuntMicrovolts returns the shunt voltage drop for ch in microvolts.
func (d *Device) ShuntMicrovolts(ch Channel) (int32, error) {
	if !ch.valid() {
		return 0, ErrInvalidChannel
	}
	raw, err := d.readS16(ch.shuntReg())
	if err != nil {
		return 0, err
	}
	return decodeShunt(raw), nil
}

// BusMillivolts returns the bus (rail) voltage for ch in millivolts.
func (d *Device) BusMillivolts(ch Channel) (int32, error) {
	if !ch.valid() {
		return 0, ErrInvalidChannel
	}
	raw, err := d.readS16(ch.busReg())
	if err != nil {
		return 0, err
	}
	return int32(raw>>3) * busLSB_mV, nil
}

// CurrentMilliamps derives the rail current for ch from the shunt voltage and
// the configured sense resistor. µV across mΩ gives mA directly; the division
// truncates toward zero.
func (d *Device) CurrentMilliamps(ch Channel) (int32, error) {
	uv, err := d.ShuntMicrovolts(ch)
	if err != nil {
		return 0, err
	}
	return uv / int32(d.shunt[ch-1]), nil
}

// ShuntSumMicrovolts returns the summed shunt voltage of the enabled
// summation channels in microvolts (signed 14-bit register, 40 µV/LSB).
func (d *Device) ShuntSumMicrovolts() (int32, error) {
	raw, err := d.readS16(regShuntSum)
	if err != nil {
		return 0, err
	}
	return int32(raw>>1) * shuntLSB_uV, nil
}

// CriticalAlertLimitMicrovolts returns the critical alert threshold for ch,
// shunt-voltage coded.
func (d *Device) CriticalAlertLimitMicrovolts(ch Channel) (int32, error) {
	if !ch.valid() {
		return 0, ErrInvalidChannel
	}
	raw, err := d.readS16(ch.critReg())
	if err != nil {
		return 0, err
	}
	return decodeShunt(raw), nil
}

// WarningAlertLimitMicrovolts returns the warning alert threshold for ch,
// shunt-voltage coded.
func (d *Device) WarningAlertLimitMicrovolts(ch Channel) (int32, error) {
	if !ch.valid() {
		return 0, ErrInvalidChannel
	}
	raw, err := d.readS16(ch.warnReg())
	if err != nil {
		return 0, err
	}
	return decodeShunt(raw), nil
}

// MaskEnableFlags is the content of the MASK/ENABLE register (0x0F).
type MaskEnableFlags uint16

const (
	SumChannel1     MaskEnableFlags = 1 << 14 // SCC1
	SumChannel2     MaskEnableFlags = 1 << 13 // SCC2
	SumChannel3     MaskEnableFlags = 1 << 12 // SCC3
	WarningLatch    MaskEnableFlags = 1 << 11 // WEN
	CriticalLatch   MaskEnableFlags = 1 << 10 // CEN
	CriticalFlag1   MaskEnableFlags = 1 << 9  // CF1
	CriticalFlag2   MaskEnableFlags = 1 << 8  // CF2
	CriticalFlag3   MaskEnableFlags = 1 << 7  // CF3
	SumAlertFlag    MaskEnableFlags = 1 << 6  // SF
	WarningFlag1    MaskEnableFlags = 1 << 5  // WF1
	WarningFlag2    MaskEnableFlags = 1 << 4  // WF2
	WarningFlag3    MaskEnableFlags = 1 << 3  // WF3
	PowerValid      MaskEnableFlags = 1 << 2  // PVF
	TimingControl   MaskEnableFlags = 1 << 1  // TCF
	ConversionReady MaskEnableFlags = 1 << 0  // CVRF
)

func (f MaskEnableFlags) Has(flag MaskEnableFlags) bool { return f&flag != 0 }

// MaskEnable reads the MASK/ENABLE register. Note the alert flag bits are
// cleared by the chip on read.
func (d *Device) MaskEnable() (MaskEnableFlags, error) {
	v, err := d.readWord(regMaskEnable)
	return MaskEnableFlags(v), err
}

// ManufacturerID returns the MANUFACTURER_ID register verbatim (0x5449, "TI").
func (d *Device) ManufacturerID() (uint16, error) {
	return d.readWord(regManufacturerID)
}

// DieID returns the DIE_ID register verbatim.
func (d *Device) DieID() (uint16, error) {
	return d.readWord(regDieID)
}

// Connected returns whether we are communicating with an INA3221.
func (d *Device) Connected() bool {
	id, err := d.ManufacturerID()
	return err == nil && id == manufacturerTI
}
