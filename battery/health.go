package battery

import (
	"fmt"
	"strings"
)

type Health int

const (
	HealthUnknown Health = iota
	HealthGood
	HealthOverheat
	HealthDead
	HealthOverVoltage
	HealthUnspecifiedFailure
	HealthCold
)

var healthNames = map[Health]string{
	HealthUnknown:            "UNKNOWN",
	HealthGood:               "GOOD",
	HealthOverheat:           "OVERHEAT",
	HealthDead:               "DEAD",
	HealthOverVoltage:        "OVER_VOLTAGE",
	HealthUnspecifiedFailure: "UNSPECIFIED_FAILURE",
	HealthCold:               "COLD",
}

// Health codes as reported by the Android BatteryManager.
const (
	healthCodeGood               = 2
	healthCodeOverheat           = 3
	healthCodeDead               = 4
	healthCodeOverVoltage        = 5
	healthCodeUnspecifiedFailure = 6
	healthCodeCold               = 7
)

// HealthFromCode maps a platform health code to a Health. Unmapped codes are HealthUnknown.
func HealthFromCode(code int) Health {
	switch code {
	case healthCodeGood:
		return HealthGood
	case healthCodeOverheat:
		return HealthOverheat
	case healthCodeDead:
		return HealthDead
	case healthCodeOverVoltage:
		return HealthOverVoltage
	case healthCodeUnspecifiedFailure:
		return HealthUnspecifiedFailure
	case healthCodeCold:
		return HealthCold
	default:
		return HealthUnknown
	}
}

// HealthFromSysfs maps the kernel power_supply health string to a Health.
func HealthFromSysfs(s string) Health {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "good", "cool", "warm":
		return HealthGood
	case "overheat", "hot":
		return HealthOverheat
	case "dead":
		return HealthDead
	case "over voltage", "overvoltage", "overcurrent":
		return HealthOverVoltage
	case "unspecified failure", "watchdog timer expire", "safety timer expire", "calibration required":
		return HealthUnspecifiedFailure
	case "cold":
		return HealthCold
	default:
		return HealthUnknown
	}
}

// ParseHealth parses the symbolic name of a Health, as written by String.
func ParseHealth(s string) (Health, error) {
	for h, name := range healthNames {
		if name == s {
			return h, nil
		}
	}
	return HealthUnknown, fmt.Errorf("unknown battery health '%s'", s)
}

func (h Health) String() string {
	if name, ok := healthNames[h]; ok {
		return name
	}
	return healthNames[HealthUnknown]
}

func (h Health) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Health) UnmarshalText(text []byte) error {
	parsed, err := ParseHealth(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
