package models_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"rigcheck/internal/inventory/models"
	dErrors "rigcheck/pkg/domain-errors"
)

type ProgressSuite struct {
	suite.Suite
}

func TestProgressSuite(t *testing.T) {
	suite.Run(t, new(ProgressSuite))
}

func (s *ProgressSuite) TestCheckProgress() {
	s.Run("starts at zero", func() {
		p := models.InitialCheckProgress(3)
		s.Equal(3, p.TotalItems)
		s.Equal(0, p.VerifiedCount)
		s.Equal(3, p.Remaining())
		s.Equal(0, p.Percentage())
		s.False(p.IsAllVerified())
		s.False(p.HasIssues())
	})

	s.Run("advancing returns a new value", func() {
		p := models.InitialCheckProgress(2)
		next := p.WithItemVerified(true)
		s.Equal(0, p.VerifiedCount)
		s.Equal(1, next.VerifiedCount)
		s.Equal(1, next.IssuesFoundCount)
		s.Equal(50, next.Percentage())
		s.True(next.HasIssues())
	})

	s.Run("clean items do not count as issues", func() {
		p := models.InitialCheckProgress(2).WithItemVerified(false).WithItemVerified(false)
		s.True(p.IsAllVerified())
		s.Equal(0, p.IssuesFoundCount)
		s.Equal(100, p.Percentage())
	})

	s.Run("empty manifest is fully verified", func() {
		p := models.InitialCheckProgress(0)
		s.True(p.IsAllVerified())
		s.Equal(100, p.Percentage())
	})

	s.Run("panics past the total", func() {
		p := models.InitialCheckProgress(1).WithItemVerified(false)
		s.Panics(func() { p.WithItemVerified(false) })
	})

	s.Run("panics on negative total", func() {
		s.Panics(func() { models.InitialCheckProgress(-1) })
	})
}

func (s *ProgressSuite) TestRehydration() {
	cases := []struct {
		name     string
		total    int
		verified int
		issues   int
		ok       bool
	}{
		{"valid", 5, 3, 2, true},
		{"negative count", 5, -1, 0, false},
		{"verified exceeds total", 2, 3, 0, false},
		{"issues exceed verified", 5, 1, 2, false},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			p, err := models.NewCheckProgress(tc.total, tc.verified, tc.issues)
			if tc.ok {
				s.Require().NoError(err)
				s.Equal(tc.verified, p.VerifiedCount)
				return
			}
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		})
	}

	s.Run("audit rejects negative unexpected count", func() {
		_, err := models.NewAuditProgress(2, 1, 0, -1)
		s.Require().Error(err)
	})
}

func (s *ProgressSuite) TestAuditProgress() {
	s.Run("unexpected items never advance the audited count", func() {
		p := models.InitialAuditProgress(1).WithUnexpectedItem().WithUnexpectedItem()
		s.Equal(2, p.UnexpectedItemsCount)
		s.Equal(0, p.AuditedCount)
		s.Equal(1, p.Remaining())
		s.False(p.IsAllAudited())
	})

	s.Run("audited items advance count and issues", func() {
		p := models.InitialAuditProgress(3).WithItemAudited(true).WithItemAudited(false)
		s.Equal(2, p.AuditedCount)
		s.Equal(1, p.IssuesFoundCount)
		s.Equal(66, p.Percentage())
	})

	s.Run("panics past the total", func() {
		s.Panics(func() { models.InitialAuditProgress(0).WithItemAudited(false) })
	})
}
