package ina3221

import "time"

// OperatingMode determines which conversions run and whether they run once or
// continuously. Raw code 4 is a reserved alias of power-down and decodes to
// ModePowerDown.
type OperatingMode uint8

// Constants representing each possible value of type OperatingMode.
const (
	ModePowerDown          OperatingMode = 0 // (000b) -- default after reset
	ModeOneshotShunt       OperatingMode = 1 // (001b)
	ModeOneshotBus         OperatingMode = 2 // (010b)
	ModeOneshotShuntBus    OperatingMode = 3 // (011b)
	ModeContinuousShunt    OperatingMode = 5 // (101b)
	ModeContinuousBus      OperatingMode = 6 // (110b)
	ModeContinuousShuntBus OperatingMode = 7 // (111b)
)

// OperatingModeFromRaw is total: unmapped codes fall back to ModePowerDown.
func OperatingModeFromRaw(raw uint8) OperatingMode {
	switch OperatingMode(raw & 0x07) {
	case ModeOneshotShunt, ModeOneshotBus, ModeOneshotShuntBus,
		ModeContinuousShunt, ModeContinuousBus, ModeContinuousShuntBus:
		return OperatingMode(raw & 0x07)
	default:
		return ModePowerDown
	}
}

func (m OperatingMode) String() string {
	switch m {
	case ModeOneshotShunt:
		return "oneshot_shunt"
	case ModeOneshotBus:
		return "oneshot_bus"
	case ModeOneshotShuntBus:
		return "oneshot_shunt_bus"
	case ModeContinuousShunt:
		return "continuous_shunt"
	case ModeContinuousBus:
		return "continuous_bus"
	case ModeContinuousShuntBus:
		return "continuous_shunt_bus"
	default:
		return "power_down"
	}
}

// AveragingMode determines the number of samples that are collected and
// averaged before the measurement registers update.
type AveragingMode uint8

// Constants representing each possible value of type AveragingMode.
const (
	Avg1    AveragingMode = 0 // (000b) -- default
	Avg4    AveragingMode = 1 // (001b)
	Avg16   AveragingMode = 2 // (010b)
	Avg64   AveragingMode = 3 // (011b)
	Avg128  AveragingMode = 4 // (100b)
	Avg256  AveragingMode = 5 // (101b)
	Avg512  AveragingMode = 6 // (110b)
	Avg1024 AveragingMode = 7 // (111b)
)

var avgSamples = [8]uint16{1, 4, 16, 64, 128, 256, 512, 1024}

// AveragingModeFromRaw is total: every 3-bit code is a defined mode.
func AveragingModeFromRaw(raw uint8) AveragingMode {
	return AveragingMode(raw & 0x07)
}

// Samples returns the sample count selected by the mode.
func (m AveragingMode) Samples() uint16 { return avgSamples[m&0x07] }

// ConversionTime is the per-sample ADC conversion latency. These are the only
// intervals the hardware recognises. The type is not wired to a register
// accessor yet; it is exposed for callers budgeting total conversion time
// (ConversionTime × AveragingMode samples).
type ConversionTime uint8

// Constants representing each possible value of type ConversionTime.
const (
	Conv140us  ConversionTime = 0 // (000b)
	Conv204us  ConversionTime = 1 // (001b)
	Conv332us  ConversionTime = 2 // (010b)
	Conv588us  ConversionTime = 3 // (011b)
	Conv1100us ConversionTime = 4 // (100b) -- default
	Conv2116us ConversionTime = 5 // (101b)
	Conv4156us ConversionTime = 6 // (110b)
	Conv8244us ConversionTime = 7 // (111b)
)

var convMicros = [8]uint16{140, 204, 332, 588, 1100, 2116, 4156, 8244}

// ConversionTimeFromRaw is total: every 3-bit code is a defined latency.
func ConversionTimeFromRaw(raw uint8) ConversionTime {
	return ConversionTime(raw & 0x07)
}

// Duration returns the conversion latency.
func (t ConversionTime) Duration() time.Duration {
	return time.Duration(convMicros[t&0x07]) * time.Microsecond
}
