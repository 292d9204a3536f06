package cache

import (
	"fmt"
	"time"

	"github.com/aretw0/marl/pkg/core"
)

// candidate is a fetched and parsed document awaiting validation.
type candidate struct {
	source string
	mtime  time.Time
	doc    core.Document
	sum    uint64
}

// admit runs each candidate through validate and stores the survivors.
// Rejections are recorded in the report; admitted candidates overwrite any
// existing row for their source. A nil validate admits everything.
func (c *Cache) admit(cands []candidate, validate core.Validator, report *core.Report) {
	for _, cand := range cands {
		if validate != nil && !validate(cand.doc) {
			report.Failures = append(report.Failures, core.Failure{
				Source:  cand.source,
				ModTime: cand.mtime,
				Err:     fmt.Errorf("%q: %w", cand.source, core.ErrValidationRejected),
			})
			continue
		}
		c.put(cand.source, cand.mtime, cand.doc, cand.sum)
		report.Admitted++
	}
}
