package models_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"rigcheck/internal/inventory/models"
	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
)

type CheckSuite struct {
	suite.Suite
	start time.Time
}

func TestCheckSuite(t *testing.T) {
	suite.Run(t, new(CheckSuite))
}

func (s *CheckSuite) SetupTest() {
	s.start = time.Date(2026, 3, 14, 7, 0, 0, 0, time.UTC)
}

func (s *CheckSuite) newCheck(total int) *models.InProgressCheck {
	check, err := models.NewInProgressCheck(
		id.NewCheckID(),
		id.ApparatusID(uuid.New()),
		id.StationID(uuid.New()),
		id.UserID(uuid.New()),
		s.start,
		total,
	)
	s.Require().NoError(err)
	return check
}

func (s *CheckSuite) TestStart() {
	s.Run("new check is in progress with zero progress", func() {
		check := s.newCheck(4)
		s.Equal(models.CheckStatusInProgress, check.Status())
		s.Equal(4, check.Progress.TotalItems)
		s.Equal(0, check.Progress.VerifiedCount)
		s.Equal(s.start, check.LastActivityAt)
	})

	s.Run("rejects missing ids", func() {
		_, err := models.NewInProgressCheck(id.CheckID{}, id.ApparatusID(uuid.New()),
			id.StationID(uuid.New()), id.UserID(uuid.New()), s.start, 1)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *CheckSuite) TestVerifyAndComplete() {
	s.Run("verifying advances progress and last activity", func() {
		check := s.newCheck(2)
		next := check.WithItemVerified(true, s.start.Add(5*time.Minute))
		s.Equal(1, next.Progress.VerifiedCount)
		s.Equal(1, next.Progress.IssuesFoundCount)
		s.Equal(s.start.Add(5*time.Minute), next.LastActivityAt)
		s.Equal(0, check.Progress.VerifiedCount, "original value is unchanged")
	})

	s.Run("complete with items remaining reports the remaining count", func() {
		check := s.newCheck(3).WithItemVerified(false, s.start.Add(time.Minute))
		_, err := check.Complete(s.start.Add(2 * time.Minute))

		var incomplete *models.IncompleteSessionError
		s.Require().True(errors.As(err, &incomplete))
		s.Equal(2, incomplete.Remaining)
		s.True(dErrors.HasCode(err, dErrors.CodeIncompleteSession))
	})

	s.Run("complete when every item is verified", func() {
		check := s.newCheck(1).WithItemVerified(false, s.start.Add(time.Minute))
		done, err := check.Complete(s.start.Add(2 * time.Minute))
		s.Require().NoError(err)
		s.Equal(models.CheckStatusCompleted, done.Status())
		s.Equal(s.start.Add(2*time.Minute), done.CompletedAt)
	})

	s.Run("an empty manifest completes immediately", func() {
		done, err := s.newCheck(0).Complete(s.start)
		s.Require().NoError(err)
		s.Equal(100, done.Progress.Percentage())
	})

	s.Run("completion cannot precede the start", func() {
		_, err := models.NewCompletedCheck(s.newCheck(0).CheckHeader, s.start.Add(-time.Second))
		s.Require().Error(err)
	})
}

func (s *CheckSuite) TestAbandonAndResume() {
	s.Run("abandon preserves progress", func() {
		check := s.newCheck(5).
			WithItemVerified(false, s.start.Add(time.Minute)).
			WithItemVerified(true, s.start.Add(2*time.Minute))
		abandoned, err := check.Abandon(s.start.Add(3*time.Minute), "  called out  ")
		s.Require().NoError(err)
		s.Equal(models.CheckStatusAbandoned, abandoned.Status())
		s.Equal(2, abandoned.Progress.VerifiedCount)
		s.Equal("called out", abandoned.Reason)
	})

	s.Run("resume just inside the window", func() {
		abandonedAt := s.start.Add(10 * time.Minute)
		abandoned, err := s.newCheck(3).WithItemVerified(false, s.start.Add(time.Minute)).Abandon(abandonedAt, "")
		s.Require().NoError(err)

		now := abandonedAt.Add(29*time.Minute + 59*time.Second)
		resumed, err := abandoned.Resume(now)
		s.Require().NoError(err)
		s.Equal(models.CheckStatusInProgress, resumed.Status())
		s.Equal(1, resumed.Progress.VerifiedCount)
		s.Equal(s.start, resumed.StartedAt)
		s.Equal(now, resumed.LastActivityAt)
		s.Equal(abandoned.ID, resumed.ID)
	})

	s.Run("resume just outside the window", func() {
		abandonedAt := s.start.Add(10 * time.Minute)
		abandoned, err := s.newCheck(3).Abandon(abandonedAt, "")
		s.Require().NoError(err)

		_, err = abandoned.Resume(abandonedAt.Add(30*time.Minute + time.Second))
		var expired *models.ResumeWindowExpiredError
		s.Require().True(errors.As(err, &expired))
		s.Equal(abandonedAt.Add(models.ResumeWindow), expired.Deadline)
		s.True(dErrors.HasCode(err, dErrors.CodeResumeWindowExpired))
	})

	s.Run("resume exactly at the deadline is refused", func() {
		abandoned, err := s.newCheck(1).Abandon(s.start, "")
		s.Require().NoError(err)
		s.False(abandoned.CanResume(s.start.Add(models.ResumeWindow)))
	})
}

func (s *CheckSuite) TestRequireInProgress() {
	s.Run("in progress passes", func() {
		check := s.newCheck(1)
		got, err := models.RequireInProgressCheck(check)
		s.Require().NoError(err)
		s.Same(check, got)
	})

	s.Run("completed is terminal", func() {
		done, err := s.newCheck(0).Complete(s.start)
		s.Require().NoError(err)
		_, err = models.RequireInProgressCheck(done)
		s.True(models.IsSessionTerminal(err, "completed"))
		s.True(dErrors.HasCode(err, dErrors.CodeSessionTerminal))
	})

	s.Run("abandoned is terminal", func() {
		abandoned, err := s.newCheck(1).Abandon(s.start, "")
		s.Require().NoError(err)
		_, err = models.RequireInProgressCheck(abandoned)
		s.True(models.IsSessionTerminal(err, "abandoned"))
	})
}

func (s *CheckSuite) TestStaleness() {
	check := s.newCheck(1)
	s.False(check.IsStale(s.start.Add(models.StaleCheckAfter - time.Second)))
	s.True(check.IsStale(s.start.Add(models.StaleCheckAfter)))
}
