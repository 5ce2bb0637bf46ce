package powersupply

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/TheCacophonyProject/battery-reporter/battery"
	"github.com/godbus/dbus/v5"
)

const (
	upowerName        = "org.freedesktop.UPower"
	upowerPath        = "/org/freedesktop/UPower"
	displayDevicePath = "/org/freedesktop/UPower/devices/DisplayDevice"
	deviceInterface   = "org.freedesktop.UPower.Device"
)

// UPower device states, see the UPower D-Bus documentation.
const (
	upowerStateCharging     = 1
	upowerStateFullyCharged = 4
)

// UPower reads the UPower display device over the system bus.
type UPower struct {
	conn *dbus.Conn
	now  func() time.Time
}

func NewUPower() (*UPower, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	return &UPower{conn: conn, now: time.Now}, nil
}

func (u *UPower) Read(ctx context.Context) (battery.Sample, error) {
	props := map[string]dbus.Variant{}
	device := u.conn.Object(upowerName, displayDevicePath)
	err := device.CallWithContext(ctx, "org.freedesktop.DBus.Properties.GetAll", 0, deviceInterface).Store(&props)
	if err != nil {
		return battery.Sample{}, fmt.Errorf("failed to read UPower device: %w", err)
	}

	var onBattery bool
	err = u.conn.Object(upowerName, upowerPath).
		CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, upowerName, "OnBattery").
		Store(&onBattery)
	if err != nil {
		return battery.Sample{}, fmt.Errorf("failed to read UPower OnBattery: %w", err)
	}

	return sampleFromUPower(props, onBattery, u.now())
}

func sampleFromUPower(props map[string]dbus.Variant, onBattery bool, now time.Time) (battery.Sample, error) {
	if present, ok := props["IsPresent"].Value().(bool); ok && !present {
		return battery.Sample{}, ErrNoBattery
	}
	percentage, ok := props["Percentage"].Value().(float64)
	if !ok {
		return battery.Sample{}, fmt.Errorf("UPower device has no percentage")
	}

	sample := battery.Sample{
		Level:     int(math.Round(percentage)),
		Health:    battery.HealthUnknown,
		Timestamp: now.UnixMilli(),
	}
	if temp, ok := props["Temperature"].Value().(float64); ok {
		sample.Temperature = math.Round(temp*10) / 10
	}
	if volts, ok := props["Voltage"].Value().(float64); ok {
		sample.Voltage = int(math.Round(volts * 1000))
	}
	if state, ok := props["State"].Value().(uint32); ok {
		sample.IsCharging = state == upowerStateCharging || state == upowerStateFullyCharged
	}
	if !onBattery {
		sample.ChargingMethod = battery.ChargingAC
	}
	return sample, nil
}
