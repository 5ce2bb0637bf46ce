/*
battery-reporter - Battery telemetry sampling and reporting
Copyright (C) 2024, The Cacophony Project

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package report turns a series of battery samples into a summary report
// and writes the report and the raw samples out as JSON and CSV.
package report

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/TheCacophonyProject/battery-reporter/battery"
)

const (
	DateFormat = "2006-01-02 15:04:05"

	msPerMinute = 60 * 1000
	msPerHour   = 60 * msPerMinute
)

var ErrEmptyInput = errors.New("battery samples cannot be empty")

// Report is a summary of a series of battery samples.
// Temperatures are in °C, times charging and discharging in minutes, voltages in mV.
type Report struct {
	ReportDate              string         `json:"reportDate"`
	TotalSamples            int            `json:"totalSamples"`
	MonitoringDurationHours float64        `json:"monitoringDurationHours"`
	AverageBatteryLevel     float64        `json:"averageBatteryLevel"`
	MinBatteryLevel         int            `json:"minBatteryLevel"`
	MaxBatteryLevel         int            `json:"maxBatteryLevel"`
	AverageTemperature      float64        `json:"averageTemperature"`
	MaxTemperature          float64        `json:"maxTemperature"`
	MinTemperature          float64        `json:"minTemperature"`
	AverageVoltage          float64        `json:"averageVoltage"`
	ChargingCycles          int            `json:"chargingCycles"`
	TimeCharging            float64        `json:"timeCharging"`
	TimeDischarging         float64        `json:"timeDischarging"`
	HealthStatus            battery.Health `json:"healthStatus"`
	PowerConsumptionRate    float64        `json:"powerConsumptionRate"` // %/hour
	BatteryDegradation      float64        `json:"batteryDegradation"`   // %
	Recommendations         []string       `json:"recommendations"`
}

// Thresholds that drive the degradation estimate and the recommendations.
type Thresholds struct {
	MaxTemperature            float64 // Any sample above this gets a high temperature warning.
	AverageTemperature        float64
	ChargeDischargeRatio      float64
	DegradationWarning        float64
	DegradationCritical       float64
	FullChargeLevel           int
	ExpectedFullChargeVoltage float64 // mV of a fully charged Li-ion cell
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxTemperature:            45,
		AverageTemperature:        35,
		ChargeDischargeRatio:      2,
		DegradationWarning:        10,
		DegradationCritical:       20,
		FullChargeLevel:           95,
		ExpectedFullChargeVoltage: 4200,
	}
}

type Engine struct {
	Thresholds Thresholds
	Now        func() time.Time
}

func NewEngine() *Engine {
	return &Engine{
		Thresholds: DefaultThresholds(),
		Now:        time.Now,
	}
}

// Generate makes a report from the samples using the default thresholds.
func Generate(samples []battery.Sample) (Report, error) {
	return NewEngine().Generate(samples)
}

// Generate makes a report from the samples. The samples can be in any order and are not modified.
func (e *Engine) Generate(samples []battery.Sample) (Report, error) {
	if len(samples) == 0 {
		return Report{}, ErrEmptyInput
	}

	sorted := sortedByTime(samples)
	first := sorted[0]
	last := sorted[len(sorted)-1]

	durationHours := float64(last.Timestamp-first.Timestamp) / msPerHour

	var levelSum, tempSum, voltageSum float64
	minLevel, maxLevel := samples[0].Level, samples[0].Level
	minTemp, maxTemp := samples[0].Temperature, samples[0].Temperature
	for _, s := range samples {
		levelSum += float64(s.Level)
		tempSum += s.Temperature
		voltageSum += float64(s.Voltage)
		minLevel = min(minLevel, s.Level)
		maxLevel = max(maxLevel, s.Level)
		minTemp = math.Min(minTemp, s.Temperature)
		maxTemp = math.Max(maxTemp, s.Temperature)
	}
	n := float64(len(samples))
	avgLevel := levelSum / n
	avgTemp := tempSum / n
	avgVoltage := voltageSum / n

	chargingMinutes, dischargingMinutes := chargingTime(sorted)
	degradation := estimateDegradation(sorted, e.Thresholds)

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	return Report{
		ReportDate:              now().Format(DateFormat),
		TotalSamples:            len(samples),
		MonitoringDurationHours: round2(durationHours),
		AverageBatteryLevel:     round2(avgLevel),
		MinBatteryLevel:         minLevel,
		MaxBatteryLevel:         maxLevel,
		AverageTemperature:      round2(avgTemp),
		MaxTemperature:          round2(maxTemp),
		MinTemperature:          round2(minTemp),
		AverageVoltage:          round2(avgVoltage),
		ChargingCycles:          countChargingCycles(sorted),
		TimeCharging:            round2(chargingMinutes),
		TimeDischarging:         round2(dischargingMinutes),
		HealthStatus:            latestHealth(sorted),
		PowerConsumptionRate:    round2(powerConsumptionRate(sorted)),
		BatteryDegradation:      round2(degradation),
		Recommendations: recommendations(
			avgTemp, maxTemp, chargingMinutes, dischargingMinutes, degradation, e.Thresholds),
	}, nil
}

func sortedByTime(samples []battery.Sample) []battery.Sample {
	sorted := make([]battery.Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

func latestHealth(sorted []battery.Sample) battery.Health {
	if len(sorted) == 0 {
		return battery.HealthUnknown
	}
	return sorted[len(sorted)-1].Health
}

// round2 rounds to 2 decimal places, halves rounding up.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
