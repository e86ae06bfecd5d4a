// Package model defines the domain types shared by the simulation engine
// and its collaborators.
package model

import (
	"fmt"
	"time"
)

// WorkItem is a single roadmap entry. Items are immutable once loaded and
// identified by Position, which is unique and stable across trials.
type WorkItem struct {
	// Position is the 1-based identifier used by dependency references and
	// by the deterministic scheduling tie-break.
	Position int
	Name     string
	// DueDate is the target completion date. Zero means no due date.
	DueDate time.Time
	// StartDate is the earliest permissible start. Zero means none.
	StartDate time.Time
	// Priority is descriptive only and never influences scheduling.
	Priority string
	// DependsOn references the Position of the predecessor item, 0 if the
	// item is a root. At most one predecessor per item.
	DependsOn int
	// Best, Likely and Worst are effort estimates in person-days and
	// parameterize the triangular effort distribution.
	Best   float64
	Likely float64
	Worst  float64
}

// HasDependency reports whether the item references a predecessor.
func (w WorkItem) HasDependency() bool { return w.DependsOn != 0 }

// HasStartDate reports whether an earliest start is declared.
func (w WorkItem) HasStartDate() bool { return !w.StartDate.IsZero() }

// HasDueDate reports whether a due date is declared.
func (w WorkItem) HasDueDate() bool { return !w.DueDate.IsZero() }

// ExpectedEffort returns the mean of the triangular effort distribution.
func (w WorkItem) ExpectedEffort() float64 {
	return (w.Best + w.Likely + w.Worst) / 3
}

// Validate checks the invariants the engine relies on. Loaders are expected
// to have validated input already; the engine still rejects obviously
// malformed items rather than produce a misleading distribution.
func (w WorkItem) Validate() error {
	if w.Position < 1 {
		return fmt.Errorf("position must be >= 1, got %d", w.Position)
	}
	if w.Name == "" {
		return fmt.Errorf("name is required")
	}
	if w.Best <= 0 {
		return fmt.Errorf("best estimate must be positive, got %g", w.Best)
	}
	if w.Likely < w.Best {
		return fmt.Errorf("likely estimate %g is below best estimate %g", w.Likely, w.Best)
	}
	if w.Worst < w.Likely {
		return fmt.Errorf("worst estimate %g is below likely estimate %g", w.Worst, w.Likely)
	}
	if w.DependsOn < 0 {
		return fmt.Errorf("dependency reference must be a positive position, got %d", w.DependsOn)
	}
	if w.DependsOn == w.Position {
		return fmt.Errorf("item cannot depend on itself")
	}
	return nil
}
