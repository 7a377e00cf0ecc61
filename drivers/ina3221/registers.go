// Package ina3221 provides constants for register addresses and bitfields used
// in the operation of the INA3221 triple-channel shunt/bus voltage monitor.
package ina3221

const (
	// 7-bit I2C address with A0 tied to GND.
	AddressDefault = 0x40

	// --- Register sub-addresses (16-bit word registers, big-endian) ---

	// Configuration
	regConfig = 0x00 // R/W

	// Measurements (shunt/bus interleaved per channel)
	regShunt1 = 0x01 // R
	regBus1   = 0x02 // R
	regShunt2 = 0x03 // R
	regBus2   = 0x04 // R
	regShunt3 = 0x05 // R
	regBus3   = 0x06 // R

	// Alert limits (shunt-voltage coding)
	regCritLimit1 = 0x07 // R/W
	regWarnLimit1 = 0x08 // R/W
	regCritLimit2 = 0x09 // R/W
	regWarnLimit2 = 0x0A // R/W
	regCritLimit3 = 0x0B // R/W
	regWarnLimit3 = 0x0C // R/W

	// Summation and alert plumbing
	regShuntSum      = 0x0D // R
	regShuntSumLimit = 0x0E // R/W
	regMaskEnable    = 0x0F // R/W

	// Identification
	regManufacturerID = 0xFE // R
	regDieID          = 0xFF // R

	// --- Configuration register (0x00) fields ---

	cfgReset    = 1 << 15 // self-clearing, restores power-on defaults
	cfgChanMask = 0x7000  // CH1 bit 14, CH2 bit 13, CH3 bit 12
	cfgAvgMask  = 0x0E00  // AVG bits 11:9
	cfgAvgShift = 9
	cfgModeMask = 0x0007 // MODE bits 2:0

	// MANUFACTURER_ID content, "TI" in ASCII.
	manufacturerTI = 0x5449
)

// Channel selects one of the three monitored rails.
type Channel uint8

const (
	Channel1 Channel = 1
	Channel2 Channel = 2
	Channel3 Channel = 3
)

func (c Channel) valid() bool { return c >= Channel1 && c <= Channel3 }

// Measurement and limit registers are interleaved two per channel.
func (c Channel) shuntReg() byte { return regShunt1 + 2*byte(c-1) }
func (c Channel) busReg() byte   { return regBus1 + 2*byte(c-1) }
func (c Channel) critReg() byte  { return regCritLimit1 + 2*byte(c-1) }
func (c Channel) warnReg() byte  { return regWarnLimit1 + 2*byte(c-1) }

// Enable bits sit at 14/13/12 for channels 1/2/3.
func (c Channel) enableBit() uint16 { return 1 << (15 - c) }
