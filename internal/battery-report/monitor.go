package batteryreport

import (
	"context"
	"time"

	"github.com/TheCacophonyProject/battery-reporter/powersupply"
	"github.com/TheCacophonyProject/battery-reporter/samplelog"
)

type monitor struct {
	conf     Config
	source   powersupply.Source
	samples  *samplelog.Log
	reporter *reporter
	alerts   *alerter
	changes  <-chan struct{} // Optional, a sample is taken on each change.
}

func newMonitor(conf Config, source powersupply.Source, r *reporter) *monitor {
	return &monitor{
		conf:     conf,
		source:   source,
		samples:  samplelog.New(),
		reporter: r,
		alerts:   newAlerter(conf.AlertInterval),
	}
}

// run samples the battery until the context is cancelled, saving a report every
// report interval once there are enough samples, and a final report when stopping.
func (m *monitor) run(ctx context.Context) error {
	sampleTicker := time.NewTicker(m.conf.SampleInterval)
	defer sampleTicker.Stop()
	reportTicker := time.NewTicker(m.conf.ReportInterval)
	defer reportTicker.Stop()

	m.takeSample(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping battery monitoring")
			m.finalReport()
			return nil
		case <-sampleTicker.C:
			m.takeSample(ctx)
		case <-m.changes:
			log.Debug("Power supply changed")
			m.takeSample(ctx)
		case <-reportTicker.C:
			m.periodicReport()
		}
	}
}

func (m *monitor) takeSample(ctx context.Context) {
	sample, err := m.source.Read(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Errorf("Failed to read battery: %v", err)
		}
		return
	}
	m.samples.Append(sample)
	log.Debug("Battery status: ", sample)
	m.alerts.check(sample)
}

func (m *monitor) periodicReport() {
	n := m.samples.Len()
	if n < m.conf.MinSamples {
		log.Debugf("Not enough samples for a report yet (%d of %d)", n, m.conf.MinSamples)
		return
	}
	if _, err := m.reporter.save(m.samples.Snapshot()); err != nil {
		log.Errorf("Error generating report: %v", err)
	}
}

func (m *monitor) finalReport() {
	if m.samples.Len() == 0 {
		return
	}
	if _, err := m.reporter.save(m.samples.Snapshot()); err != nil {
		log.Errorf("Error generating final report: %v", err)
	}
}
