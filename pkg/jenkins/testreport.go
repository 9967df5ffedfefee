package jenkins

import (
	"encoding/json"
	"fmt"
	"time"
)

// SuiteStatus is the reduced status of a test suite.
type SuiteStatus string

const (
	// SuitePassed means no case of the suite failed.
	SuitePassed SuiteStatus = "PASSED"
	// SuiteFailed means at least one case failed.
	SuiteFailed SuiteStatus = "FAILED"
)

// TestReport wraps the decoded test report of a build.
type TestReport struct {
	Raw    *TestReportResponse
	raw    json.RawMessage
	job    string
	number int
}

// JobName returns the job the report belongs to.
func (r *TestReport) JobName() string {
	return r.job
}

// BuildNumber returns the build the report belongs to.
func (r *TestReport) BuildNumber() int {
	return r.number
}

// JSON returns the report as received from the server.
func (r *TestReport) JSON() []byte {
	return r.raw
}

// Duration returns the total test duration.
func (r *TestReport) Duration() time.Duration {
	return time.Duration(r.Raw.Duration * float64(time.Second))
}

// FailCount returns the number of failed cases.
func (r *TestReport) FailCount() int {
	return r.Raw.FailCount
}

// PassCount returns the number of passed cases.
func (r *TestReport) PassCount() int {
	return r.Raw.PassCount
}

// SkipCount returns the number of skipped cases.
func (r *TestReport) SkipCount() int {
	return r.Raw.SkipCount
}

// Suites returns all suites of the report.
func (r *TestReport) Suites() []TestSuite {
	return r.Raw.Suites
}

// Suite returns the suite at the given index.
func (r *TestReport) Suite(id int) (*TestSuite, error) {
	if id < 0 || id >= len(r.Raw.Suites) {
		return nil, fmt.Errorf("%w: %d", ErrSuiteNotFound, id)
	}

	return &r.Raw.Suites[id], nil
}

// SuiteStatus reduces the suite at the given index to passed or failed.
func (r *TestReport) SuiteStatus(id int) (SuiteStatus, error) {
	suite, err := r.Suite(id)

	if err != nil {
		return "", err
	}

	return suite.Status(), nil
}

// Status returns SuiteFailed if any case failed, SuitePassed otherwise.
func (s TestSuite) Status() SuiteStatus {
	for _, c := range s.Cases {
		if c.Status == string(SuiteFailed) {
			return SuiteFailed
		}
	}

	return SuitePassed
}
