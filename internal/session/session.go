// Package session keeps the analyzed documents of the running process.
//
// A Record is immutable. Remediation builds a new Record and swaps it in
// with Mutate, which holds a lock for that session only; readers always
// see either the old or the new Record, never a mix.
package session

import (
	"time"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
	"github.com/jackzampolin/pdfa11y/internal/pdfdoc"
)

// Record is one analyzed document and the result of its latest analysis.
type Record struct {
	ID       string
	Filename string
	// Document is owned by this record alone.
	Document *pdfdoc.Document
	Snapshot *a11y.Snapshot
	Issues   []a11y.Issue
	Score    int

	PageCount int
	PageDims  []a11y.Dims

	// Revision counts successful remediations.
	Revision         int
	CreatedAt        time.Time
	LastRemediatedAt time.Time
}

// Issue returns the issue with the given id.
func (r *Record) Issue(id string) (a11y.Issue, bool) {
	for _, is := range r.Issues {
		if is.ID == id {
			return is, true
		}
	}
	return a11y.Issue{}, false
}

// Remediated reports whether any fix has been applied.
func (r *Record) Remediated() bool { return r.Revision > 0 }

// Backend stores records by id. Implementations must be safe for
// concurrent use; Store never mutates a Record it has handed to Put.
type Backend interface {
	Get(id string) (*Record, bool)
	Put(rec *Record)
	Delete(id string)
	Len() int
}
