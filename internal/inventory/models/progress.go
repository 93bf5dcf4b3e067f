package models

import (
	"fmt"

	dErrors "rigcheck/pkg/domain-errors"
)

// CheckProgress counts how far an inventory check has come through its manifest snapshot.
//
// Invariants:
//   - all counts are non-negative
//   - VerifiedCount <= TotalItems
//   - IssuesFoundCount <= VerifiedCount
//
// Values are immutable; advancing returns a new value.
type CheckProgress struct {
	TotalItems       int
	VerifiedCount    int
	IssuesFoundCount int
}

// InitialCheckProgress returns zero progress over total manifest items.
func InitialCheckProgress(total int) CheckProgress {
	if total < 0 {
		panic(fmt.Sprintf("progress: negative total %d", total))
	}
	return CheckProgress{TotalItems: total}
}

// NewCheckProgress rehydrates progress from storage, enforcing the invariants.
func NewCheckProgress(total, verified, issues int) (CheckProgress, error) {
	if err := validateCounts(total, verified, issues); err != nil {
		return CheckProgress{}, err
	}
	return CheckProgress{TotalItems: total, VerifiedCount: verified, IssuesFoundCount: issues}, nil
}

// WithItemVerified records one more verified item. Callers must check Remaining first;
// advancing past the total is a programming error.
func (p CheckProgress) WithItemVerified(hasIssue bool) CheckProgress {
	if p.VerifiedCount >= p.TotalItems {
		panic("progress: verified count would exceed total items")
	}
	next := p
	next.VerifiedCount++
	if hasIssue {
		next.IssuesFoundCount++
	}
	return next
}

func (p CheckProgress) Percentage() int {
	return percentage(p.VerifiedCount, p.TotalItems)
}

func (p CheckProgress) IsAllVerified() bool {
	return p.VerifiedCount == p.TotalItems
}

func (p CheckProgress) Remaining() int {
	return p.TotalItems - p.VerifiedCount
}

func (p CheckProgress) HasIssues() bool {
	return p.IssuesFoundCount > 0
}

// AuditProgress is the formal-audit counterpart of CheckProgress. Unexpected items
// (found but not on the manifest) are counted separately and never advance AuditedCount.
type AuditProgress struct {
	TotalItems           int
	AuditedCount         int
	IssuesFoundCount     int
	UnexpectedItemsCount int
}

func InitialAuditProgress(total int) AuditProgress {
	if total < 0 {
		panic(fmt.Sprintf("progress: negative total %d", total))
	}
	return AuditProgress{TotalItems: total}
}

// NewAuditProgress rehydrates progress from storage, enforcing the invariants.
func NewAuditProgress(total, audited, issues, unexpected int) (AuditProgress, error) {
	if err := validateCounts(total, audited, issues); err != nil {
		return AuditProgress{}, err
	}
	if unexpected < 0 {
		return AuditProgress{}, dErrors.New(dErrors.CodeInvariantViolation, "unexpected items count must not be negative")
	}
	return AuditProgress{
		TotalItems:           total,
		AuditedCount:         audited,
		IssuesFoundCount:     issues,
		UnexpectedItemsCount: unexpected,
	}, nil
}

// WithItemAudited records one more audited manifest item.
func (p AuditProgress) WithItemAudited(hasIssue bool) AuditProgress {
	if p.AuditedCount >= p.TotalItems {
		panic("progress: audited count would exceed total items")
	}
	next := p
	next.AuditedCount++
	if hasIssue {
		next.IssuesFoundCount++
	}
	return next
}

// WithUnexpectedItem records an item found that is not on the manifest.
func (p AuditProgress) WithUnexpectedItem() AuditProgress {
	next := p
	next.UnexpectedItemsCount++
	return next
}

func (p AuditProgress) Percentage() int {
	return percentage(p.AuditedCount, p.TotalItems)
}

func (p AuditProgress) IsAllAudited() bool {
	return p.AuditedCount == p.TotalItems
}

func (p AuditProgress) Remaining() int {
	return p.TotalItems - p.AuditedCount
}

func (p AuditProgress) HasIssues() bool {
	return p.IssuesFoundCount > 0
}

func validateCounts(total, done, issues int) error {
	switch {
	case total < 0 || done < 0 || issues < 0:
		return dErrors.New(dErrors.CodeInvariantViolation, "progress counts must not be negative")
	case done > total:
		return dErrors.New(dErrors.CodeInvariantViolation, "completed count exceeds total items")
	case issues > done:
		return dErrors.New(dErrors.CodeInvariantViolation, "issues found exceeds completed count")
	}
	return nil
}

func percentage(done, total int) int {
	if total == 0 {
		return 100
	}
	return done * 100 / total
}
