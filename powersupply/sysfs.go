package powersupply

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/TheCacophonyProject/battery-reporter/battery"
)

const DefaultSysfsRoot = "/sys/class/power_supply"

var ErrNoBattery = errors.New("no battery found")

// Sysfs reads the kernel power_supply class, as used by Linux and Android.
type Sysfs struct {
	root string
	name string
	now  func() time.Time
}

// NewSysfs returns a reader for the battery called name under root. If name
// is empty the first supply with a type of "Battery" is used.
func NewSysfs(root, name string) *Sysfs {
	if root == "" {
		root = DefaultSysfsRoot
	}
	return &Sysfs{root: root, name: name, now: time.Now}
}

func (s *Sysfs) Read(ctx context.Context) (battery.Sample, error) {
	if err := ctx.Err(); err != nil {
		return battery.Sample{}, err
	}

	supplies, err := os.ReadDir(s.root)
	if err != nil {
		return battery.Sample{}, fmt.Errorf("reading %s: %w", s.root, err)
	}

	batteryPath := ""
	method := battery.ChargingNone
	for _, entry := range supplies {
		path := filepath.Join(s.root, entry.Name())
		supplyType, err := readString(filepath.Join(path, "type"))
		if err != nil {
			continue
		}
		if supplyType == "Battery" {
			if batteryPath == "" && (s.name == "" || s.name == entry.Name()) {
				batteryPath = path
			}
			continue
		}
		if method == battery.ChargingNone {
			if online, err := readInt(filepath.Join(path, "online")); err == nil && online == 1 {
				method = battery.ChargingMethodFromSysfsType(supplyType)
			}
		}
	}
	if batteryPath == "" {
		return battery.Sample{}, ErrNoBattery
	}

	sample, err := readBattery(batteryPath)
	if err != nil {
		return battery.Sample{}, err
	}
	sample.ChargingMethod = method
	sample.Timestamp = s.now().UnixMilli()
	return sample, nil
}

// readBattery reads everything except the charging method and timestamp.
// Only the level is required, other missing values are left as zero or unknown.
func readBattery(path string) (battery.Sample, error) {
	level, err := readLevel(path)
	if err != nil {
		return battery.Sample{}, err
	}
	sample := battery.Sample{Level: level}

	if health, err := readString(filepath.Join(path, "health")); err == nil {
		sample.Health = battery.HealthFromSysfs(health)
	}
	if temp, err := readInt(filepath.Join(path, "temp")); err == nil {
		sample.Temperature = battery.TemperatureFromTenths(temp)
	}
	if microVolts, err := readInt(filepath.Join(path, "voltage_now")); err == nil {
		sample.Voltage = microVolts / 1000
	}
	if status, err := readString(filepath.Join(path, "status")); err == nil {
		sample.IsCharging = battery.IsChargingSysfsStatus(status)
	}
	return sample, nil
}

func readLevel(path string) (int, error) {
	if capacity, err := readInt(filepath.Join(path, "capacity")); err == nil {
		return capacity, nil
	}
	for _, pair := range [][2]string{{"charge_now", "charge_full"}, {"energy_now", "energy_full"}} {
		now, err := readInt(filepath.Join(path, pair[0]))
		if err != nil {
			continue
		}
		full, err := readInt(filepath.Join(path, pair[1]))
		if err != nil {
			continue
		}
		if level, ok := battery.LevelFromScale(now, full); ok {
			return level, nil
		}
	}
	return 0, fmt.Errorf("no battery level available in %s", path)
}

func readString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func readInt(path string) (int, error) {
	s, err := readString(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}
