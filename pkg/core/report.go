package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// Failure records one candidate a batch admission could not accept, with
// enough context for the caller to retry or report it.
type Failure struct {
	Source  string
	ModTime time.Time
	Err     error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %v", f.Source, f.Err)
}

// MarshalJSON flattens Err into its message; error values do not survive
// encoding/json otherwise.
func (f Failure) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		Source  string
		ModTime time.Time
		Err     string
	}{f.Source, f.ModTime, msg})
}

// Report is the outcome of a batch admission. Individual candidate failures
// never abort the batch, so a Report can carry both admitted rows and
// failures.
type Report struct {
	Admitted int
	Failures []Failure
}

// Ok reports whether every candidate was admitted.
func (r Report) Ok() bool {
	return len(r.Failures) == 0
}
