package batteryreport

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/TheCacophonyProject/battery-reporter/battery"
	"github.com/TheCacophonyProject/battery-reporter/report"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceWithoutSamples(t *testing.T) {
	s := service{m: testMonitor(&fakeSource{}, afero.NewMemMapFs())}

	count, dbusErr := s.SampleCount()
	assert.Nil(t, dbusErr)
	assert.Equal(t, int32(0), count)

	_, dbusErr = s.LatestSample()
	require.NotNil(t, dbusErr)
	assert.True(t, strings.HasPrefix(dbusErr.Name, dbusName+"."))

	_, dbusErr = s.GenerateReport()
	require.NotNil(t, dbusErr)
	assert.Equal(t, []interface{}{report.ErrEmptyInput.Error()}, dbusErr.Body)

	_, dbusErr = s.SaveReport()
	assert.NotNil(t, dbusErr)
}

func TestServiceReports(t *testing.T) {
	_, restore := recordEvents()
	defer restore()

	fs := afero.NewMemMapFs()
	m := testMonitor(&fakeSource{samples: dischargingSamples()}, fs)
	for i := 0; i < 3; i++ {
		m.takeSample(context.Background())
	}
	s := service{m: m}

	count, dbusErr := s.SampleCount()
	assert.Nil(t, dbusErr)
	assert.Equal(t, int32(3), count)

	latest, dbusErr := s.LatestSample()
	require.Nil(t, dbusErr)
	var sample battery.Sample
	require.NoError(t, json.Unmarshal([]byte(latest), &sample))
	assert.Equal(t, discharging(80, 60*60*1000), sample)

	generated, dbusErr := s.GenerateReport()
	require.Nil(t, dbusErr)
	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(generated), &rep))
	assert.Equal(t, 3, rep.TotalSamples)
	assert.Equal(t, 20.0, rep.PowerConsumptionRate)
	exists, err := afero.DirExists(fs, "/reports")
	require.NoError(t, err)
	assert.False(t, exists)

	dir, dbusErr := s.SaveReport()
	require.Nil(t, dbusErr)
	assert.Equal(t, "/reports", dir)
	assert.Len(t, reportFiles(t, fs), 2)
}
