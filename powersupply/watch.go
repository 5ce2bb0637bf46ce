package powersupply

import (
	"context"
	"fmt"

	"github.com/TheCacophonyProject/battery-reporter/internal/logging"
	"github.com/godbus/dbus/v5"
)

const propertiesChanged = "org.freedesktop.DBus.Properties.PropertiesChanged"

// Properties that mean the level or charging state has changed.
var watchedProperties = []string{"Percentage", "State", "OnBattery", "IsPresent"}

// WatchUPower sends on the returned channel whenever UPower reports a change to
// the battery level or charging state, until ctx is done. Changes that arrive
// before the last one was received are merged.
func WatchUPower(ctx context.Context, log *logging.Logger) (<-chan struct{}, error) {
	if log == nil {
		log = logging.NewLogger("info")
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}

	rule := fmt.Sprintf("type='signal',sender='%s',member='PropertiesChanged'", upowerName)
	call := conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.AddMatch", 0, rule)
	if call.Err != nil {
		return nil, fmt.Errorf("failed to add match rule: %w", call.Err)
	}

	signals := make(chan *dbus.Signal, 10)
	conn.Signal(signals)
	changes := make(chan struct{}, 1)

	log.Println("Listening for D-Bus signals from", upowerName)
	go func() {
		defer conn.RemoveSignal(signals)
		for {
			select {
			case <-ctx.Done():
				return
			case signal, ok := <-signals:
				if !ok {
					return
				}
				if !isPowerChange(signal) {
					continue
				}
				log.Debugf("Power change on %s: %v", signal.Path, signal.Body[1])
				select {
				case changes <- struct{}{}:
				default:
				}
			}
		}
	}()
	return changes, nil
}

func isPowerChange(signal *dbus.Signal) bool {
	if signal == nil || signal.Name != propertiesChanged || len(signal.Body) < 2 {
		return false
	}
	iface, ok := signal.Body[0].(string)
	if !ok {
		return false
	}
	switch {
	case signal.Path == displayDevicePath && iface == deviceInterface:
	case signal.Path == upowerPath && iface == upowerName:
	default:
		return false
	}

	changed, ok := signal.Body[1].(map[string]dbus.Variant)
	if !ok {
		return false
	}
	for _, p := range watchedProperties {
		if _, ok := changed[p]; ok {
			return true
		}
	}
	return false
}
