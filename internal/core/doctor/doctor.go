// Package doctor runs health checks over the configuration, the database and
// the persisted language and direction state.
package doctor

import "context"

// Status is the outcome of a single check item.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckItem is one line of a check result.
type CheckItem struct {
	Label  string `json:"label"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
	// Fixable marks issues that --autofix knows how to repair.
	Fixable bool `json:"fixable,omitempty"`
}

// Result groups the items produced by one check.
type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

// Check is a named health check.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// Report is the outcome of a doctor run.
type Report struct {
	Checks  []Result `json:"checks"`
	Passed  int      `json:"passed"`
	Warned  int      `json:"warned"`
	Failed  int      `json:"failed"`
	Fixable int      `json:"fixable"`
}

// Healthy reports whether no item failed.
func (r Report) Healthy() bool {
	return r.Failed == 0
}

// RunAll runs checks in order and tallies their items.
func RunAll(ctx context.Context, checks []Check) Report {
	report := Report{Checks: make([]Result, 0, len(checks))}
	for _, check := range checks {
		result := check.Run(ctx)
		for _, item := range result.Items {
			report.count(item)
		}
		report.Checks = append(report.Checks, result)
	}
	return report
}

func (r *Report) count(item CheckItem) {
	switch item.Status {
	case StatusPass:
		r.Passed++
		return
	case StatusWarn:
		r.Warned++
	case StatusFail:
		r.Failed++
	}
	if item.Fixable {
		r.Fixable++
	}
}
