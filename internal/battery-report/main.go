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

package batteryreport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheCacophonyProject/battery-reporter/internal/logging"
	"github.com/TheCacophonyProject/battery-reporter/powersupply"
	"github.com/TheCacophonyProject/battery-reporter/report"
	goconfig "github.com/TheCacophonyProject/go-config"
	arg "github.com/alexflint/go-arg"
	"github.com/spf13/afero"
)

var version = "<not set>"

var log = logging.NewLogger("info")

type Args struct {
	ConfigDir       string      `arg:"-c,--config" help:"configuration folder"`
	Source          string      `arg:"--source" help:"where to read the battery from (sysfs, upower)"`
	PowerSupplyRoot string      `arg:"--power-supply-root" help:"sysfs power_supply folder"`
	BatteryName     string      `arg:"--battery" help:"name of the power_supply battery to use, defaults to the first battery found"`
	Monitor         *MonitorCmd `arg:"subcommand:monitor" help:"Sample the battery and save reports periodically."`
	Report          *ReportCmd  `arg:"subcommand:report"  help:"Generate a report from a CSV file of samples."`
	Read            *subcommand `arg:"subcommand:read"    help:"Make a single battery reading."`
	logging.LogArgs
}

type subcommand struct{}

type MonitorCmd struct {
	SampleInterval time.Duration `arg:"--sample-interval" help:"time between battery samples"`
	ReportInterval time.Duration `arg:"--report-interval" help:"time between reports"`
	MinSamples     int           `arg:"--min-samples" help:"samples needed before a periodic report is saved"`
	ReportDir      string        `arg:"--report-dir" help:"folder to save reports to"`
	MaxReports     int           `arg:"--max-reports" help:"number of reports to keep, 0 keeps all"`
	NoDBus         bool          `arg:"--no-dbus" help:"don't start the DBus service"`
}

type ReportCmd struct {
	CSV  string `arg:"positional,required" help:"CSV file of samples"`
	Out  string `arg:"--out" help:"folder to also save the JSON report and CSV samples to"`
	JSON bool   `arg:"--json" help:"print the report as JSON instead of a summary"`
}

func (Args) Version() string {
	return version
}

var defaultArgs = Args{
	ConfigDir: goconfig.DefaultConfigDir,
}

func procArgs(input []string) (Args, error) {
	args := defaultArgs

	parser, err := arg.NewParser(arg.Config{}, &args)
	if err != nil {
		return Args{}, err
	}
	err = parser.Parse(input)
	if errors.Is(err, arg.ErrHelp) {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if errors.Is(err, arg.ErrVersion) {
		fmt.Println(version)
		os.Exit(0)
	}
	if err == nil && parser.Subcommand() == nil {
		parser.WriteHelp(os.Stdout)
		return args, errors.New("no subcommand given")
	}
	return args, err
}

func Run(inputArgs []string, ver string) error {
	version = ver
	args, err := procArgs(inputArgs)
	if err != nil {
		return fmt.Errorf("failed to parse args: %v", err)
	}

	log = logging.NewLoggerFromArgs(args.LogArgs)
	log.Info("Running version: ", version)

	conf, err := loadConfig(args.ConfigDir)
	if err != nil {
		return err
	}
	conf = applyArgs(conf, args)
	if err := conf.validate(); err != nil {
		return err
	}

	switch {
	case args.Monitor != nil:
		return runMonitor(conf, loadDevice(args.ConfigDir))
	case args.Report != nil:
		return runReport(conf, args.Report, os.Stdout)
	case args.Read != nil:
		return runRead(conf, os.Stdout)
	}
	return nil
}

// applyArgs overrides the config with any flags that were set.
func applyArgs(conf Config, args Args) Config {
	if args.Source != "" {
		conf.Source = args.Source
	}
	if args.PowerSupplyRoot != "" {
		conf.PowerSupplyRoot = args.PowerSupplyRoot
	}
	if args.BatteryName != "" {
		conf.BatteryName = args.BatteryName
	}
	if m := args.Monitor; m != nil {
		if m.SampleInterval != 0 {
			conf.SampleInterval = m.SampleInterval
		}
		if m.ReportInterval != 0 {
			conf.ReportInterval = m.ReportInterval
		}
		if m.MinSamples != 0 {
			conf.MinSamples = m.MinSamples
		}
		if m.ReportDir != "" {
			conf.ReportDir = m.ReportDir
		}
		if m.MaxReports != 0 {
			conf.MaxReports = m.MaxReports
		}
		if m.NoDBus {
			conf.DBus = false
		}
	}
	return conf
}

func runMonitor(conf Config, dev device) error {
	source, err := powersupply.New(conf.Source, conf.PowerSupplyRoot, conf.BatteryName)
	if err != nil {
		return err
	}

	r := newReporter(conf, afero.NewOsFs(), dev)
	r.sendEvents = true
	m := newMonitor(conf, source, r)
	if conf.DBus {
		if err := startService(m); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.Source == powersupply.SourceUPower {
		changes, err := powersupply.WatchUPower(ctx, log)
		if err != nil {
			log.Warnf("Not watching for power changes: %v", err)
		} else {
			m.changes = changes
		}
	}

	log.Infof("Battery monitoring started for device '%s' (%d), sampling every %s, reporting every %s",
		dev.Name, dev.ID, conf.SampleInterval, conf.ReportInterval)
	return m.run(ctx)
}

func runReport(conf Config, cmd *ReportCmd, out io.Writer) error {
	file, err := os.Open(cmd.CSV)
	if err != nil {
		return err
	}
	defer file.Close()

	samples, err := report.ReadCSV(file)
	if err != nil {
		return fmt.Errorf("failed to read samples from '%s': %w", cmd.CSV, err)
	}

	var rep report.Report
	if cmd.Out != "" {
		conf.ReportDir = cmd.Out
		conf.MaxReports = 0
		rep, err = newReporter(conf, afero.NewOsFs(), device{}).save(samples)
	} else {
		rep, err = report.NewEngine().Generate(samples)
	}
	if err != nil {
		return err
	}

	if cmd.JSON {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	return report.WriteSummary(out, rep)
}

func runRead(conf Config, out io.Writer) error {
	source, err := powersupply.New(conf.Source, conf.PowerSupplyRoot, conf.BatteryName)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sample, err := source.Read(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, sample)
	return err
}
