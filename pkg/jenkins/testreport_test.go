package jenkins

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testReportFixture = `{
	"_class": "hudson.tasks.junit.TestResult",
	"duration": 1.5,
	"empty": false,
	"failCount": 1,
	"passCount": 2,
	"skipCount": 0,
	"suites": [
		{
			"name": "unit",
			"duration": 0.5,
			"cases": [
				{"name": "TestA", "className": "pkg", "status": "PASSED"},
				{"name": "TestB", "className": "pkg", "status": "FIXED"}
			]
		},
		{
			"name": "integration",
			"duration": 1.0,
			"cases": [
				{"name": "TestC", "className": "pkg", "status": "FAILED", "errorDetails": "boom"}
			]
		},
		{
			"name": "empty",
			"cases": []
		}
	]
}`

func TestTestReport(t *testing.T) {
	s := newFakeServer(t)
	s.Router.Get("/job/demo/4/testReport/api/json", writeJSON(testReportFixture))

	client := s.client(t)

	report, err := client.Build.TestReport(context.Background(), "demo", 4)
	require.NoError(t, err)

	assert.Equal(t, "demo", report.JobName())
	assert.Equal(t, 4, report.BuildNumber())
	assert.Equal(t, 1500*time.Millisecond, report.Duration())
	assert.Equal(t, 1, report.FailCount())
	assert.Equal(t, 2, report.PassCount())
	assert.Equal(t, 0, report.SkipCount())
	assert.Len(t, report.Suites(), 3)
	assert.JSONEq(t, testReportFixture, string(report.JSON()))

	suite, err := report.Suite(1)
	require.NoError(t, err)
	assert.Equal(t, "integration", suite.Name)
	require.NotNil(t, suite.Cases[0].ErrorDetails)
	assert.Equal(t, "boom", *suite.Cases[0].ErrorDetails)
}

func TestSuiteStatus(t *testing.T) {
	report := &TestReport{}
	require.NoError(t, json.Unmarshal([]byte(testReportFixture), &report.Raw))

	tests := []struct {
		id       int
		expected SuiteStatus
	}{
		{0, SuitePassed},
		{1, SuiteFailed},
		{2, SuitePassed},
	}

	for _, tt := range tests {
		status, err := report.SuiteStatus(tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, status, "suite %d", tt.id)
	}

	_, err := report.SuiteStatus(3)
	assert.ErrorIs(t, err, ErrSuiteNotFound)

	_, err = report.Suite(-1)
	assert.ErrorIs(t, err, ErrSuiteNotFound)
}
