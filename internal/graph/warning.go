package graph

import (
	"fmt"
	"strings"
)

// WarningKind classifies a structural problem found while building.
type WarningKind int

const (
	// DuplicateRevision: two files declare the same revision id.
	DuplicateRevision WarningKind = iota + 1
	// DanglingParent: a declared parent is not among the parsed files.
	DanglingParent
	// CycleDetected: following parent edges leads back to a revision.
	CycleDetected
)

// String implements fmt.Stringer.
func (k WarningKind) String() string {
	switch k {
	case DuplicateRevision:
		return "DuplicateRevision"
	case DanglingParent:
		return "DanglingParent"
	case CycleDetected:
		return "CycleDetected"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is a non-fatal structural problem. The graph is still built.
type Warning struct {
	Kind WarningKind
	// Revision is the revision the warning is about.
	Revision string
	// Path is the file that triggered the warning: the dropped duplicate or
	// the file declaring the dangling parent. Empty for cycles.
	Path string
	// KeptPath is the file whose record was kept for a DuplicateRevision.
	KeptPath string
	// Parent is the missing revision of a DanglingParent.
	Parent string
	// Cycle lists the revisions of a cycle in parent-edge order, starting
	// and implicitly ending at the same revision.
	Cycle []string
}

// String renders the warning for logs and reports.
func (w Warning) String() string {
	switch w.Kind {
	case DuplicateRevision:
		return fmt.Sprintf("duplicate revision %q in %s (kept %s)", w.Revision, w.Path, w.KeptPath)
	case DanglingParent:
		return fmt.Sprintf("revision %q in %s references unknown parent %q", w.Revision, w.Path, w.Parent)
	case CycleDetected:
		return fmt.Sprintf("cycle detected: %s -> %s", strings.Join(w.Cycle, " -> "), w.Cycle[0])
	default:
		return fmt.Sprintf("%s for revision %q", w.Kind, w.Revision)
	}
}
