package batteryreport

import (
	"encoding/json"
	"errors"
	"runtime"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	dbusName = "org.cacophony.BatteryReport"
	dbusPath = "/org/cacophony/BatteryReport"
)

type service struct {
	m *monitor
}

func startService(m *monitor) error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return err
	}
	reply, err := conn.RequestName(dbusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return errors.New("name already taken")
	}

	s := &service{m: m}
	if err := conn.Export(s, dbusPath, dbusName); err != nil {
		return err
	}
	return conn.Export(genIntrospectable(s), dbusPath, "org.freedesktop.DBus.Introspectable")
}

func (s service) SampleCount() (int32, *dbus.Error) {
	return int32(s.m.samples.Len()), nil
}

// LatestSample returns the most recent sample as JSON.
func (s service) LatestSample() (string, *dbus.Error) {
	sample, ok := s.m.samples.Last()
	if !ok {
		return "", dbusErr(errors.New("no samples yet"))
	}
	data, err := json.Marshal(sample)
	if err != nil {
		return "", dbusErr(err)
	}
	return string(data), nil
}

// GenerateReport returns a report of the samples so far as JSON, without saving it.
func (s service) GenerateReport() (string, *dbus.Error) {
	log.Println("Got DBus message 'GenerateReport'")
	rep, err := s.m.reporter.generate(s.m.samples.Snapshot())
	if err != nil {
		return "", dbusErr(err)
	}
	data, err := json.Marshal(rep)
	if err != nil {
		return "", dbusErr(err)
	}
	return string(data), nil
}

// SaveReport saves a report now and returns the folder it was saved to.
func (s service) SaveReport() (string, *dbus.Error) {
	log.Println("Got DBus message 'SaveReport'")
	if _, err := s.m.reporter.save(s.m.samples.Snapshot()); err != nil {
		return "", dbusErr(err)
	}
	return s.m.reporter.dir, nil
}

func genIntrospectable(v interface{}) introspect.Introspectable {
	node := &introspect.Node{
		Interfaces: []introspect.Interface{{
			Name:    dbusName,
			Methods: introspect.Methods(v),
		}},
	}
	return introspect.NewIntrospectable(node)
}

func dbusErr(err error) *dbus.Error {
	if err == nil {
		return nil
	}
	return &dbus.Error{
		Name: dbusName + "." + getCallerName(),
		Body: []interface{}{err.Error()},
	}
}

func getCallerName() string {
	fpcs := make([]uintptr, 1)
	n := runtime.Callers(3, fpcs)
	if n == 0 {
		return ""
	}
	caller := runtime.FuncForPC(fpcs[0] - 1)
	if caller == nil {
		return ""
	}
	funcNames := strings.Split(caller.Name(), ".")
	return funcNames[len(funcNames)-1]
}
