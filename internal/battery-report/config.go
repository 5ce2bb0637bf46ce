package batteryreport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/TheCacophonyProject/battery-reporter/powersupply"
	goconfig "github.com/TheCacophonyProject/go-config"
	"github.com/spf13/viper"
)

const configFileName = "battery-report.toml"

type Config struct {
	Source          string        `mapstructure:"source"`
	PowerSupplyRoot string        `mapstructure:"power-supply-root"`
	BatteryName     string        `mapstructure:"battery-name"`
	SampleInterval  time.Duration `mapstructure:"sample-interval"`
	ReportInterval  time.Duration `mapstructure:"report-interval"`
	MinSamples      int           `mapstructure:"min-samples"`
	ReportDir       string        `mapstructure:"report-dir"`
	MaxReports      int           `mapstructure:"max-reports"`
	AlertInterval   time.Duration `mapstructure:"alert-interval"`
	DBus            bool          `mapstructure:"dbus"`
}

func defaultConfig() Config {
	return Config{
		Source:          powersupply.SourceSysfs,
		PowerSupplyRoot: powersupply.DefaultSysfsRoot,
		SampleInterval:  10 * time.Second,
		ReportInterval:  5 * time.Minute,
		MinSamples:      10,
		ReportDir:       "/var/lib/battery-report/reports",
		MaxReports:      100,
		AlertInterval:   30 * time.Minute,
		DBus:            true,
	}
}

// loadConfig reads battery-report.toml from the config folder on top of the defaults.
// A missing file is not an error.
func loadConfig(configDir string) (Config, error) {
	conf := defaultConfig()

	path := filepath.Join(configDir, configFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Debugf("No config file at '%s', using defaults", path)
		return conf, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := v.Unmarshal(&conf); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return conf, conf.validate()
}

func (c Config) validate() error {
	if c.SampleInterval <= 0 {
		return fmt.Errorf("sample-interval must be positive, got %s", c.SampleInterval)
	}
	if c.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be positive, got %s", c.ReportInterval)
	}
	if c.MinSamples < 1 {
		return fmt.Errorf("min-samples must be at least 1, got %d", c.MinSamples)
	}
	if c.MaxReports < 0 {
		return fmt.Errorf("max-reports can not be negative, got %d", c.MaxReports)
	}
	if c.ReportDir == "" {
		return errors.New("report-dir must be set")
	}
	return nil
}

type device struct {
	Name string
	ID   int
}

// loadDevice gets the device identity from the shared cacophony config. It is only used
// to label logs and events so any problem reading it is logged and ignored.
func loadDevice(configDir string) device {
	conf, err := goconfig.New(configDir)
	if err != nil {
		log.Debugf("Could not load device config: %v", err)
		return device{}
	}
	var d goconfig.Device
	if err := conf.Unmarshal(goconfig.DeviceKey, &d); err != nil {
		log.Debugf("Could not read device config: %v", err)
		return device{}
	}
	return device{Name: d.Name, ID: d.ID}
}
