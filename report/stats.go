package report

import (
	"math"

	"github.com/TheCacophonyProject/battery-reporter/battery"
)

// countChargingCycles counts the runs of consecutive charging samples.
func countChargingCycles(sorted []battery.Sample) int {
	cycles := 0
	wasCharging := false
	for _, s := range sorted {
		if s.IsCharging && !wasCharging {
			cycles++
		}
		wasCharging = s.IsCharging
	}
	return cycles
}

// chargingTime splits the time between the first and last sample into minutes
// spent charging and discharging. Each interval between two samples is counted
// against the state of the later sample.
func chargingTime(sorted []battery.Sample) (charging, discharging float64) {
	for i := 1; i < len(sorted); i++ {
		interval := float64(sorted[i].Timestamp-sorted[i-1].Timestamp) / msPerMinute
		if sorted[i].IsCharging {
			charging += interval
		} else {
			discharging += interval
		}
	}
	return charging, discharging
}

// powerConsumptionRate is the %/hour drop in level between the first and last
// discharging samples. A negative rate means the level went up while not charging.
func powerConsumptionRate(sorted []battery.Sample) float64 {
	if len(sorted) < 2 {
		return 0
	}

	var discharging []battery.Sample
	for _, s := range sorted {
		if !s.IsCharging {
			discharging = append(discharging, s)
		}
	}
	if len(discharging) < 2 {
		return 0
	}

	first := discharging[0]
	last := discharging[len(discharging)-1]
	levelDrop := float64(first.Level - last.Level)
	hours := float64(last.Timestamp-first.Timestamp) / msPerHour
	if hours <= 0 {
		return 0
	}
	return levelDrop / hours
}

// estimateDegradation compares the average voltage of nearly full samples taken
// while charging against the expected full charge voltage.
func estimateDegradation(sorted []battery.Sample, t Thresholds) float64 {
	var voltageSum float64
	count := 0
	for _, s := range sorted {
		if s.Level >= t.FullChargeLevel && s.IsCharging {
			voltageSum += float64(s.Voltage)
			count++
		}
	}
	if count == 0 || t.ExpectedFullChargeVoltage <= 0 {
		return 0
	}

	avgVoltage := voltageSum / float64(count)
	return math.Max(0, (t.ExpectedFullChargeVoltage-avgVoltage)/t.ExpectedFullChargeVoltage*100)
}
