package batteryreport

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/TheCacophonyProject/battery-reporter/battery"
	"github.com/TheCacophonyProject/battery-reporter/report"
	"github.com/TheCacophonyProject/event-reporter/v3/eventclient"
	"github.com/spf13/afero"
)

const (
	reportFilePrefix  = "battery_report_"
	samplesFilePrefix = "battery_data_"
)

var errSaveFailed = errors.New("failed to save report")

// addEvent is swapped out in tests.
var addEvent = eventclient.AddEvent

// reporter saves a JSON report and CSV of the samples for each reporting tick.
type reporter struct {
	mu         sync.Mutex
	fs         afero.Fs
	dir        string
	maxReports int
	engine     *report.Engine
	exporter   *report.Exporter
	device     device
	sendEvents bool
	now        func() time.Time
}

func newReporter(conf Config, fs afero.Fs, dev device) *reporter {
	return &reporter{
		fs:         fs,
		dir:        conf.ReportDir,
		maxReports: conf.MaxReports,
		engine:     report.NewEngine(),
		exporter:   report.NewExporter(fs, log),
		device:     dev,
		now:        time.Now,
	}
}

func (r *reporter) generate(samples []battery.Sample) (report.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.Generate(samples)
}

// save generates a report from the samples and writes the report pair to the report folder.
func (r *reporter) save(samples []battery.Sample) (report.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, err := r.engine.Generate(samples)
	if err != nil {
		return report.Report{}, err
	}

	ts := r.now().UnixMilli()
	jsonPath := filepath.Join(r.dir, fmt.Sprintf("%s%d.json", reportFilePrefix, ts))
	csvPath := filepath.Join(r.dir, fmt.Sprintf("%s%d.csv", samplesFilePrefix, ts))

	jsonOK := r.exporter.ExportJSON(rep, jsonPath)
	csvOK := r.exporter.ExportCSV(samples, csvPath)
	if !jsonOK || !csvOK {
		log.Error("Failed to save report")
		return rep, errSaveFailed
	}

	log.Infof("Report saved to: %s", r.dir)
	logSummary(rep)
	if r.sendEvents {
		r.reportEvent(rep)
	}
	if err := r.prune(); err != nil {
		log.Errorf("Failed to remove old reports: %v", err)
	}
	return rep, nil
}

func logSummary(rep report.Report) {
	buf := &bytes.Buffer{}
	if err := report.WriteSummary(buf, rep); err != nil {
		log.Error(err)
		return
	}
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		log.Info(scanner.Text())
	}
}

func (r *reporter) reportEvent(rep report.Report) {
	err := addEvent(eventclient.Event{
		Timestamp: r.now(),
		Type:      "batteryReport",
		Details: map[string]interface{}{
			"device":               r.device.Name,
			"samples":              rep.TotalSamples,
			"durationHours":        rep.MonitoringDurationHours,
			"averageLevel":         rep.AverageBatteryLevel,
			"maxTemperature":       rep.MaxTemperature,
			"chargingCycles":       rep.ChargingCycles,
			"powerConsumptionRate": rep.PowerConsumptionRate,
			"degradation":          rep.BatteryDegradation,
			"health":               rep.HealthStatus.String(),
		},
	})
	if err != nil {
		log.Error("Error sending battery report event:", err)
	}
}

// prune removes the oldest report pairs so only maxReports are kept.
func (r *reporter) prune() error {
	if r.maxReports <= 0 {
		return nil
	}
	entries, err := afero.ReadDir(r.fs, r.dir)
	if err != nil {
		return err
	}

	var timestamps []int64
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, reportFilePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		ts, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, reportFilePrefix), ".json"), 10, 64)
		if err != nil {
			continue
		}
		timestamps = append(timestamps, ts)
	}
	if len(timestamps) <= r.maxReports {
		return nil
	}

	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })
	for _, ts := range timestamps[:len(timestamps)-r.maxReports] {
		for _, name := range []string{
			fmt.Sprintf("%s%d.json", reportFilePrefix, ts),
			fmt.Sprintf("%s%d.csv", samplesFilePrefix, ts),
		} {
			err := r.fs.Remove(filepath.Join(r.dir, name))
			if err != nil && !os.IsNotExist(err) {
				return err
			}
		}
		log.Debugf("Removed old report %d", ts)
	}
	return nil
}
