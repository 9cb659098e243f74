package display

import (
	"fmt"

	"github.com/gr-butler/agrokit/data"
)

const (
	SplashText   = "Agro kit"
	AnalysisText = "Analisis Realizado"

	// row used for readings, the splash and analysis texts sit on row 0
	ReadingRow = 20
)

func waterText(r data.SensorReading) string {
	if r.WaterPresent() {
		return "Agua: SI"
	}
	return "Agua: NO"
}

func valueText(label string, v data.Reading, format string) string {
	if !v.Valid {
		return label + ": Err"
	}
	return label + ": " + fmt.Sprintf(format, v.Value)
}

// Pages returns the seven reading screens in display order.
func Pages(r data.SensorReading) []string {
	return []string{
		waterText(r),
		fmt.Sprintf("H. Suelo: %d%%", r.SoilMoisture),
		valueText("t. Tierra", r.SoilTemperature, "%.1f C"),
		valueText("Temp", r.AirTemperature, "%.1f C"),
		fmt.Sprintf("Luz: %d%%", r.Light),
		valueText("H. Aire", r.AirHumidity, "%.0f %%"),
		valueText("Presion", r.Pressure, "%.1f hPa"),
	}
}
