package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/TheCacophonyProject/battery-reporter/battery"
	"github.com/TheCacophonyProject/battery-reporter/internal/logging"
	"github.com/spf13/afero"
)

var csvHeader = []string{"Timestamp", "Level", "Health", "Temperature", "Voltage", "IsCharging", "ChargingMethod"}

// Exporter writes reports and samples to a filesystem. Write failures are
// logged and reported by the boolean result, they are never returned as errors.
type Exporter struct {
	fs  afero.Fs
	log *logging.Logger
}

// NewExporter returns an Exporter writing to fs. A nil fs uses the OS filesystem.
func NewExporter(fs afero.Fs, log *logging.Logger) *Exporter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = logging.NewLogger("info")
	}
	return &Exporter{fs: fs, log: log}
}

// ExportJSON writes the report as indented JSON, creating parent directories as needed.
func (e *Exporter) ExportJSON(report Report, path string) bool {
	if err := e.writeJSON(report, path); err != nil {
		e.log.Errorf("Failed to export report to '%s': %v", path, err)
		return false
	}
	e.log.Debugf("Wrote report to '%s'", path)
	return true
}

func (e *Exporter) writeJSON(report Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := e.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return afero.WriteFile(e.fs, path, data, 0644)
}

// ExportCSV writes a header row and then one row per sample, in the order given.
func (e *Exporter) ExportCSV(samples []battery.Sample, path string) bool {
	if err := e.writeCSV(samples, path); err != nil {
		e.log.Errorf("Failed to export samples to '%s': %v", path, err)
		return false
	}
	e.log.Debugf("Wrote %d samples to '%s'", len(samples), path)
	return true
}

func (e *Exporter) writeCSV(samples []battery.Sample, path string) (err error) {
	if err := e.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := e.fs.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()
	return WriteCSV(file, samples)
}

// WriteCSV writes the samples in CSV form to w.
func WriteCSV(w io.Writer, samples []battery.Sample) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range samples {
		record := []string{
			strconv.FormatInt(s.Timestamp, 10),
			strconv.Itoa(s.Level),
			s.Health.String(),
			formatTemperature(s.Temperature),
			strconv.Itoa(s.Voltage),
			strconv.FormatBool(s.IsCharging),
			s.ChargingMethod.String(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// formatTemperature always keeps a decimal point so whole degrees print as "30.0".
func formatTemperature(t float64) string {
	s := strconv.FormatFloat(t, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ReadJSON reads a report written by ExportJSON.
func ReadJSON(fs afero.Fs, path string) (Report, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Report{}, err
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return Report{}, fmt.Errorf("failed to parse report '%s': %w", path, err)
	}
	return report, nil
}

// ReadCSV reads samples written by ExportCSV, keeping their order.
func ReadCSV(r io.Reader) ([]battery.Sample, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing csv header")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, h := range header {
		if strings.TrimSpace(h) != csvHeader[i] {
			return nil, fmt.Errorf("unexpected csv column %d '%s', expected '%s'", i+1, h, csvHeader[i])
		}
	}

	samples := []battery.Sample{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		s, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func parseRecord(record []string) (battery.Sample, error) {
	var s battery.Sample
	var err error

	if s.Timestamp, err = strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64); err != nil {
		return s, fmt.Errorf("invalid timestamp: %w", err)
	}
	if s.Level, err = strconv.Atoi(strings.TrimSpace(record[1])); err != nil {
		return s, fmt.Errorf("invalid level: %w", err)
	}
	if s.Health, err = battery.ParseHealth(strings.TrimSpace(record[2])); err != nil {
		return s, err
	}
	if s.Temperature, err = strconv.ParseFloat(strings.TrimSpace(record[3]), 64); err != nil {
		return s, fmt.Errorf("invalid temperature: %w", err)
	}
	if s.Voltage, err = strconv.Atoi(strings.TrimSpace(record[4])); err != nil {
		return s, fmt.Errorf("invalid voltage: %w", err)
	}
	if s.IsCharging, err = strconv.ParseBool(strings.TrimSpace(record[5])); err != nil {
		return s, fmt.Errorf("invalid charging flag: %w", err)
	}
	if s.ChargingMethod, err = battery.ParseChargingMethod(strings.TrimSpace(record[6])); err != nil {
		return s, err
	}
	return s, nil
}
