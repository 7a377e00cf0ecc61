package types

// ------------------------
// Power rails (ina3221)
// ------------------------

// RailInfo is the static description of one monitored rail.
type RailInfo struct {
	Channel    uint8  `json:"channel"` // 1..3
	Bus        string `json:"bus"`     // e.g. "i2c0"
	Addr       uint16 `json:"addr"`
	Shunt_mOhm uint32 `json:"shunt_mohm"`
}

// Retained value: power/rail/<name>/value
type RailValue struct {
	Shunt_uV   int32 `json:"shunt_uV"`
	Bus_mV     int32 `json:"bus_mV"`
	Current_mA int32 `json:"current_mA"`
	Power_mW   int32 `json:"power_mW"`
	TS         int64 `json:"ts_ms"`
}

// Status: power/rail/<name>/status. Err carries an errcode string; empty
// means healthy.
type RailStatus struct {
	Err string `json:"err,omitempty"`
	TS  int64  `json:"ts_ms"`
}

// Chip identity published once at monitor start: power/monitor/info
type MonitorInfo struct {
	Driver         string `json:"driver"`
	ManufacturerID uint16 `json:"manufacturer_id"`
	DieID          uint16 `json:"die_id"`
	Addr           uint16 `json:"addr"`
}
