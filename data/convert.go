package data

// MapPercent linearly maps a raw count in [0, max] to [0, 100] using integer
// arithmetic, clamping anything outside the range.
func MapPercent(raw, max int) int {
	if max <= 0 {
		return 0
	}
	pct := raw * 100 / max
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

type BatteryConfig struct {
	ADCMax     int
	VRef       float64
	Divider    float64
	EmptyVolts float64
	FullVolts  float64
}

// Volts converts a raw battery count to the voltage before the divider.
func (c BatteryConfig) Volts(raw int) float64 {
	return (float64(raw) / float64(c.ADCMax)) * c.VRef * c.Divider
}

// BatteryPercent maps the battery voltage between the empty and full
// thresholds to [0, 100]. Values outside clamp.
func BatteryPercent(raw int, c BatteryConfig) BatteryStatus {
	pct := (c.Volts(raw) - c.EmptyVolts) / (c.FullVolts - c.EmptyVolts) * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return BatteryStatus{Percent: pct}
}
