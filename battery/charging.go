package battery

import (
	"fmt"
	"strings"
)

type ChargingMethod int

const (
	ChargingNone ChargingMethod = iota
	ChargingAC
	ChargingUSB
	ChargingWireless
)

var chargingMethodNames = map[ChargingMethod]string{
	ChargingNone:     "NONE",
	ChargingAC:       "AC",
	ChargingUSB:      "USB",
	ChargingWireless: "WIRELESS",
}

// Plug source and status codes as reported by the Android BatteryManager.
const (
	pluggedCodeAC       = 1
	pluggedCodeUSB      = 2
	pluggedCodeWireless = 4

	statusCodeCharging = 2
	statusCodeFull     = 5
)

// ChargingMethodFromCode maps a platform plug source code to a ChargingMethod.
// Unmapped codes are ChargingNone.
func ChargingMethodFromCode(code int) ChargingMethod {
	switch code {
	case pluggedCodeAC:
		return ChargingAC
	case pluggedCodeUSB:
		return ChargingUSB
	case pluggedCodeWireless:
		return ChargingWireless
	default:
		return ChargingNone
	}
}

// IsChargingStatus reports if a platform status code means the battery is on charge.
// A full battery that is still plugged in counts as charging.
func IsChargingStatus(code int) bool {
	return code == statusCodeCharging || code == statusCodeFull
}

// IsChargingSysfsStatus is the same as IsChargingStatus for the kernel power_supply status string.
func IsChargingSysfsStatus(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "charging", "full":
		return true
	}
	return false
}

// ChargingMethodFromSysfsType maps the type of an online kernel power_supply to a ChargingMethod.
func ChargingMethodFromSysfsType(s string) ChargingMethod {
	t := strings.ToLower(strings.TrimSpace(s))
	switch {
	case t == "mains":
		return ChargingAC
	case strings.HasPrefix(t, "usb"):
		return ChargingUSB
	case t == "wireless":
		return ChargingWireless
	default:
		return ChargingNone
	}
}

func ParseChargingMethod(s string) (ChargingMethod, error) {
	for m, name := range chargingMethodNames {
		if name == s {
			return m, nil
		}
	}
	return ChargingNone, fmt.Errorf("unknown charging method '%s'", s)
}

func (m ChargingMethod) String() string {
	if name, ok := chargingMethodNames[m]; ok {
		return name
	}
	return chargingMethodNames[ChargingNone]
}

func (m ChargingMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ChargingMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseChargingMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
