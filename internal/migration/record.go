package migration

import "time"

// Record is one parsed migration file.
type Record struct {
	// Revision is the unique, non-empty identifier of the migration.
	Revision string
	// Parents lists the declared parent revisions in declaration order. An
	// empty list marks a root candidate, more than one a merge.
	Parents []string
	// Message is the human readable summary of the migration.
	Message string
	// Path is the source file the record was read from.
	Path string
	// Date is the embedded creation date, nil when absent or unparseable.
	Date *time.Time
	// BranchLabels holds the optional branch labels of the revision.
	BranchLabels []string
}

// IsMerge reports whether the record declares more than one parent.
func (r Record) IsMerge() bool {
	return len(r.Parents) > 1
}

// HasDate reports whether a creation date was found.
func (r Record) HasDate() bool {
	return r.Date != nil
}
