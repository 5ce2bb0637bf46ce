package report

import "fmt"

const (
	tipAvoidFullCharge = "For optimal battery life, avoid charging to 100% regularly."
	tipKeepMidRange    = "Try to keep battery level between 20-80% when possible."
)

func recommendations(avgTemp, maxTemp, chargingMinutes, dischargingMinutes, degradation float64, t Thresholds) []string {
	recs := []string{}

	if maxTemp > t.MaxTemperature {
		recs = append(recs, fmt.Sprintf(
			"Battery temperature exceeded %g°C. Consider reducing device usage during charging.", t.MaxTemperature))
	}
	if avgTemp > t.AverageTemperature {
		recs = append(recs, "Average temperature is high. Ensure proper ventilation during use.")
	}
	if chargingMinutes > dischargingMinutes*t.ChargeDischargeRatio {
		recs = append(recs, "Long charging times detected. Check charging cable and power source.")
	}
	if degradation > t.DegradationWarning {
		recs = append(recs, "Battery degradation detected. Consider battery health check.")
	}
	if degradation > t.DegradationCritical {
		recs = append(recs, "Significant battery degradation. Battery replacement may be needed.")
	}

	return append(recs, tipAvoidFullCharge, tipKeepMidRange)
}
