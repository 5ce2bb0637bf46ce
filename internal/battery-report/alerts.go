package batteryreport

import (
	"time"

	"github.com/TheCacophonyProject/battery-reporter/battery"
	"github.com/TheCacophonyProject/event-reporter/v3/eventclient"
)

const (
	highTemperature = 45.0
	criticalLevel   = 10
	lowLevelWarning = 15
	okayLevel       = 20

	alertTemperature   = "batteryTemperatureHigh"
	alertCriticalLevel = "batteryLow"
	alertHealth        = "batteryHealth"
	alertLowWarning    = "batteryLowWarning"
	alertOkay          = "batteryOkay"
)

// alerter checks each sample for conditions that need attention and reports them as events.
type alerter struct {
	interval time.Duration
	lastSent map[string]time.Time
	low      bool
	now      func() time.Time
}

func newAlerter(interval time.Duration) *alerter {
	return &alerter{
		interval: interval,
		lastSent: map[string]time.Time{},
		now:      time.Now,
	}
}

// check returns the alerts that were sent for the sample.
func (a *alerter) check(s battery.Sample) []string {
	sent := []string{}

	// Only the most important of these is reported for a sample.
	critical := ""
	switch {
	case s.Temperature > highTemperature:
		critical = alertTemperature
		log.Warnf("Battery temperature high: %.1f°C", s.Temperature)
	case s.Level <= criticalLevel && !s.IsCharging:
		critical = alertCriticalLevel
		log.Warnf("Low battery: %d%%", s.Level)
	case s.Health != battery.HealthGood && s.Health != battery.HealthUnknown:
		critical = alertHealth
		log.Warnf("Battery health: %s", s.Health)
	}
	if critical != "" && a.due(critical) {
		a.send(critical, s)
		sent = append(sent, critical)
	}

	if !a.low && !s.IsCharging && s.Level <= lowLevelWarning {
		a.low = true
		log.Warn("Battery low warning")
		a.send(alertLowWarning, s)
		sent = append(sent, alertLowWarning)
	} else if a.low && (s.IsCharging || s.Level >= okayLevel) {
		a.low = false
		log.Info("Battery level OK")
		a.send(alertOkay, s)
		sent = append(sent, alertOkay)
	}
	return sent
}

func (a *alerter) due(alert string) bool {
	last, ok := a.lastSent[alert]
	return !ok || a.now().Sub(last) >= a.interval
}

func (a *alerter) send(alert string, s battery.Sample) {
	a.lastSent[alert] = a.now()
	err := addEvent(eventclient.Event{
		Timestamp: a.now(),
		Type:      alert,
		Details: map[string]interface{}{
			"level":          s.Level,
			"temperature":    s.Temperature,
			"voltage":        s.Voltage,
			"health":         s.Health.String(),
			"charging":       s.IsCharging,
			"chargingMethod": s.ChargingMethod.String(),
		},
	})
	if err != nil {
		log.Error("Error sending battery alert event:", err)
	}
}
