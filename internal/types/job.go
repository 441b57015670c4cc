package types

import (
	"fmt"
	"time"
)

// JobReport summarizes one catalog job run.
type JobReport struct {
	Job         string        `json:"job"`
	Seen        int           `json:"seen"`
	Stored      int           `json:"stored"`
	Skipped     int           `json:"skipped"`
	Removed     int           `json:"removed"`
	Failed      int           `json:"failed"`
	FailedPages int           `json:"failed_pages,omitempty"`
	Duration    time.Duration `json:"duration"`
}

func (r JobReport) String() string {
	return fmt.Sprintf("%s: seen=%d stored=%d skipped=%d removed=%d failed=%d failed_pages=%d in %s",
		r.Job, r.Seen, r.Stored, r.Skipped, r.Removed, r.Failed, r.FailedPages, r.Duration.Round(time.Millisecond))
}
