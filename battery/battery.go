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

package battery

import (
	"fmt"
	"time"
)

// Sample is a single battery telemetry reading.
type Sample struct {
	Level          int            `json:"level"` // Percent, normally 0-100
	Health         Health         `json:"health"`
	Temperature    float64        `json:"temperature"` // Degrees Celsius
	Voltage        int            `json:"voltage"`     // Millivolts
	IsCharging     bool           `json:"isCharging"`
	ChargingMethod ChargingMethod `json:"chargingMethod"`
	Timestamp      int64          `json:"timestamp"` // Milliseconds since epoch
}

// Time returns the sample timestamp as a time.Time.
func (s Sample) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

func (s Sample) String() string {
	return fmt.Sprintf("level: %d%%, health: %s, temperature: %.1f°C, voltage: %dmV, charging: %t, method: %s",
		s.Level, s.Health, s.Temperature, s.Voltage, s.IsCharging, s.ChargingMethod)
}

// TemperatureFromTenths converts a raw reading in tenths of a degree to degrees.
func TemperatureFromTenths(raw int) float64 {
	return float64(raw) / 10
}

// LevelFromScale converts a raw level on the given scale to a percentage.
// ok is false when the raw values can't be used and another source for the level is needed.
func LevelFromScale(level, scale int) (percent int, ok bool) {
	if level < 0 || scale <= 0 {
		return 0, false
	}
	return level * 100 / scale, true
}
