// Package pipeline defines the run modes and result types for disease-sync
package pipeline

import (
	"time"

	"disease-sync/pkg/errors"
)

// Mode selects what one invocation of the sync does. The set is closed;
// every dispatch switch handles all five values and rejects anything else.
type Mode int

const (
	// ModeFull truncates the training table and reloads it from scratch,
	// newest visits first, up to the configured row limit.
	ModeFull Mode = iota
	// ModeIncremental upserts visits whose date falls inside a trailing
	// window of hours.
	ModeIncremental
	// ModeHealthCheck reports row counts for every involved table.
	ModeHealthCheck
	// ModePreview displays the top transformed rows without persisting.
	ModePreview
	// ModeVerify reports aggregate quality metrics of the training table.
	ModeVerify
)

// String returns the CLI-facing mode name.
func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeIncremental:
		return "incremental"
	case ModeHealthCheck:
		return "health"
	case ModePreview:
		return "preview"
	case ModeVerify:
		return "verify"
	default:
		return "unknown"
	}
}

// Mutates reports whether the mode writes to the training table.
func (m Mode) Mutates() bool {
	return m == ModeFull || m == ModeIncremental
}

// Request is one run instruction as parsed from the command line.
type Request struct {
	Mode Mode
	// WindowHours bounds incremental runs; it must be zero for every other
	// mode.
	WindowHours int
}

// Validate rejects requests no dispatch could execute.
func (r Request) Validate() error {
	switch r.Mode {
	case ModeIncremental:
		if r.WindowHours <= 0 {
			return errors.New(errors.ErrorTypeValidation, "incremental window must be positive").
				WithDetail("window_hours", r.WindowHours)
		}
	case ModeFull, ModeHealthCheck, ModePreview, ModeVerify:
		if r.WindowHours != 0 {
			return errors.New(errors.ErrorTypeValidation, "window hours only apply to incremental runs").
				WithDetail("mode", r.Mode.String()).
				WithDetail("window_hours", r.WindowHours)
		}
	default:
		return errors.New(errors.ErrorTypeValidation, "unknown run mode").
			WithDetail("mode", int(r.Mode))
	}
	return nil
}

// Stats summarizes one mutating run. The counts are raw MySQL affected rows,
// so an incremental run reports 1 per new visit, 2 per changed existing row
// and 0 per row that matched an identical duplicate.
type Stats struct {
	Processed int64         `json:"processed"`
	Inserted  int64         `json:"inserted"`
	Errors    int64         `json:"errors"`
	Duration  time.Duration `json:"duration"`
}

// Record is one transformed training row as produced by preview.
type Record struct {
	VisitID     string `json:"visit_id"`
	HN          string `json:"hn"`
	VN          string `json:"vn"`
	Symptoms    string `json:"symptoms"`
	ICD10Code   string `json:"icd10_code"`
	DiseaseName string `json:"disease_name"`
	Medicines   string `json:"medicines"`
	Age         int64  `json:"age"`
	Sex         string `json:"sex"`
	VisitDate   string `json:"visit_date"`
}

// Outcome carries whichever result the dispatched mode produced.
type Outcome struct {
	Mode    Mode
	Stats   Stats
	Health  *HealthReport
	Verify  *VerifyReport
	Preview []Record
}
