package report

import (
	"fmt"
	"io"
	"text/template"
)

const summaryTemplate = `=== BATTERY REPORT SUMMARY ===
Report Date: {{.ReportDate}}
Samples: {{.TotalSamples}}
Monitoring Duration: {{num .MonitoringDurationHours}} hours
Average Battery Level: {{num .AverageBatteryLevel}}% (min {{.MinBatteryLevel}}%, max {{.MaxBatteryLevel}}%)
Temperature Range: {{num .MinTemperature}}°C - {{num .MaxTemperature}}°C (average {{num .AverageTemperature}}°C)
Average Voltage: {{num .AverageVoltage}}mV
Charging Cycles: {{.ChargingCycles}}
Time Charging: {{num .TimeCharging}} minutes
Time Discharging: {{num .TimeDischarging}} minutes
Power Consumption Rate: {{num .PowerConsumptionRate}}%/hour
Battery Degradation: {{num .BatteryDegradation}}%
Health Status: {{.HealthStatus}}

Recommendations:
{{range .Recommendations}}  • {{.}}
{{end}}==============================
`

var summary = template.Must(template.New("summary").Funcs(template.FuncMap{
	"num": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(summaryTemplate))

// WriteSummary writes a human readable summary of the report.
func WriteSummary(w io.Writer, report Report) error {
	if err := summary.Execute(w, report); err != nil {
		return fmt.Errorf("failed to render report summary: %w", err)
	}
	return nil
}
