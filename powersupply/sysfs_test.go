package powersupply

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/TheCacophonyProject/battery-reporter/battery"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.UnixMilli(1700000000000)

func writeSupply(t *testing.T, root, name string, files map[string]string) {
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	for file, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content+"\n"), 0644))
	}
}

func testSysfs(root, name string) *Sysfs {
	s := NewSysfs(root, name)
	s.now = func() time.Time { return testTime }
	return s
}

func TestSysfsBatteryOnUSB(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "ac", map[string]string{"type": "Mains", "online": "0"})
	writeSupply(t, root, "battery", map[string]string{
		"type":        "Battery",
		"capacity":    "87",
		"health":      "Good",
		"temp":        "315",
		"voltage_now": "4123456",
		"status":      "Charging",
	})
	writeSupply(t, root, "usb", map[string]string{"type": "USB", "online": "1"})

	sample, err := testSysfs(root, "").Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, battery.Sample{
		Level:          87,
		Health:         battery.HealthGood,
		Temperature:    31.5,
		Voltage:        4123,
		IsCharging:     true,
		ChargingMethod: battery.ChargingUSB,
		Timestamp:      testTime.UnixMilli(),
	}, sample)
}

func TestSysfsFullCountsAsCharging(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "BAT0", map[string]string{"type": "Battery", "capacity": "100", "status": "Full"})
	writeSupply(t, root, "ADP1", map[string]string{"type": "Mains", "online": "1"})

	sample, err := testSysfs(root, "").Read(context.Background())
	require.NoError(t, err)
	assert.True(t, sample.IsCharging)
	assert.Equal(t, battery.ChargingAC, sample.ChargingMethod)
	assert.Equal(t, battery.HealthUnknown, sample.Health)
}

func TestSysfsLevelFromCharge(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "BAT0", map[string]string{
		"type":        "Battery",
		"charge_now":  "2500000",
		"charge_full": "5000000",
		"status":      "Discharging",
	})

	sample, err := testSysfs(root, "").Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, sample.Level)
	assert.False(t, sample.IsCharging)
	assert.Equal(t, battery.ChargingNone, sample.ChargingMethod)
}

func TestSysfsNamedBattery(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "BAT0", map[string]string{"type": "Battery", "capacity": "10"})
	writeSupply(t, root, "BAT1", map[string]string{"type": "Battery", "capacity": "20"})

	sample, err := testSysfs(root, "BAT1").Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, sample.Level)

	sample, err = testSysfs(root, "").Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, sample.Level)
}

func TestSysfsErrors(t *testing.T) {
	root := t.TempDir()
	_, err := testSysfs(root, "").Read(context.Background())
	assert.ErrorIs(t, err, ErrNoBattery)

	writeSupply(t, root, "BAT0", map[string]string{"type": "Battery", "status": "Charging"})
	_, err = testSysfs(root, "").Read(context.Background())
	assert.Error(t, err)

	_, err = testSysfs(filepath.Join(root, "missing"), "").Read(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = testSysfs(root, "").Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSampleFromUPower(t *testing.T) {
	props := map[string]dbus.Variant{
		"IsPresent":   dbus.MakeVariant(true),
		"Percentage":  dbus.MakeVariant(64.6),
		"Temperature": dbus.MakeVariant(29.34),
		"Voltage":     dbus.MakeVariant(3.912),
		"State":       dbus.MakeVariant(uint32(1)),
	}
	sample, err := sampleFromUPower(props, false, testTime)
	require.NoError(t, err)
	assert.Equal(t, battery.Sample{
		Level:          65,
		Health:         battery.HealthUnknown,
		Temperature:    29.3,
		Voltage:        3912,
		IsCharging:     true,
		ChargingMethod: battery.ChargingAC,
		Timestamp:      testTime.UnixMilli(),
	}, sample)

	props["State"] = dbus.MakeVariant(uint32(2))
	sample, err = sampleFromUPower(props, true, testTime)
	require.NoError(t, err)
	assert.False(t, sample.IsCharging)
	assert.Equal(t, battery.ChargingNone, sample.ChargingMethod)
}

func TestSampleFromUPowerMissingBattery(t *testing.T) {
	_, err := sampleFromUPower(map[string]dbus.Variant{"IsPresent": dbus.MakeVariant(false)}, true, testTime)
	assert.ErrorIs(t, err, ErrNoBattery)

	_, err = sampleFromUPower(map[string]dbus.Variant{}, true, testTime)
	assert.Error(t, err)
}

func TestNewSource(t *testing.T) {
	s, err := New(SourceSysfs, "/tmp/none", "")
	require.NoError(t, err)
	assert.IsType(t, &Sysfs{}, s)

	_, err = New("acpi", "", "")
	assert.Error(t, err)
}
