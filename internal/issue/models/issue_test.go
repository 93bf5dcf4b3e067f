package models_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"rigcheck/internal/issue/models"
	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
)

type IssueSuite struct {
	suite.Suite
	now  time.Time
	tech id.UserID
}

func TestIssueSuite(t *testing.T) {
	suite.Run(t, new(IssueSuite))
}

func (s *IssueSuite) SetupTest() {
	s.now = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	s.tech = id.UserID(uuid.New())
}

func (s *IssueSuite) open() *models.OpenIssue {
	target, err := models.EquipmentTarget(id.EquipmentItemID(uuid.New()))
	s.Require().NoError(err)
	issue, err := models.NewOpenIssue(models.NewOpenIssueParams{
		ID:          id.NewIssueID(),
		Target:      target,
		ApparatusID: id.ApparatusID(uuid.New()),
		StationID:   id.StationID(uuid.New()),
		Category:    models.CategoryMissing,
		Severity:    models.SeverityHigh,
		Title:       "  Halligan bar missing ",
		ReporterID:  id.UserID(uuid.New()),
		ReportedAt:  s.now,
	})
	s.Require().NoError(err)
	return issue
}

func (s *IssueSuite) TestConstruction() {
	s.Run("trims title and stamps updated_at", func() {
		issue := s.open()
		s.Equal("Halligan bar missing", issue.Title)
		s.Equal(s.now, issue.UpdatedAt)
		s.Equal(models.StatusOpen, issue.Status())
	})

	s.Run("rejects unknown category", func() {
		_, err := models.NewOpenIssue(models.NewOpenIssueParams{
			ID:          id.NewIssueID(),
			Target:      models.ApparatusTarget(),
			ApparatusID: id.ApparatusID(uuid.New()),
			StationID:   id.StationID(uuid.New()),
			Category:    "RUST",
			Severity:    models.SeverityLow,
			Title:       "x",
			ReporterID:  id.UserID(uuid.New()),
			ReportedAt:  s.now,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects missing target", func() {
		_, err := models.NewOpenIssue(models.NewOpenIssueParams{ID: id.NewIssueID()})
		s.Require().Error(err)
	})
}

func (s *IssueSuite) TestLifecycle() {
	s.Run("open to resolved", func() {
		ack := s.open().Acknowledge(s.tech, s.now.Add(time.Hour))
		s.Equal(models.StatusAcknowledged, ack.Status())

		work := ack.StartWork(s.tech, s.now.Add(2*time.Hour))
		s.Equal(models.StatusInProgress, work.Status())
		s.Equal(s.tech, work.AcknowledgedBy)

		resolved, err := work.Resolve(s.tech, " replaced ", s.now.Add(3*time.Hour))
		s.Require().NoError(err)
		s.Equal(models.StatusResolved, resolved.Status())
		s.Equal("replaced", resolved.ResolutionNotes)
		s.Equal(s.now.Add(3*time.Hour), resolved.UpdatedAt)
	})

	s.Run("resolve requires notes", func() {
		work := s.open().Acknowledge(s.tech, s.now).StartWork(s.tech, s.now)
		_, err := work.Resolve(s.tech, "  ", s.now)
		s.ErrorIs(err, models.ErrResolutionNotesRequired)
	})

	s.Run("close from any active state remembers the origin", func() {
		open := s.open()
		ack := open.Acknowledge(s.tech, s.now)
		work := ack.StartWork(s.tech, s.now)
		for _, issue := range []models.Issue{open, ack, work} {
			closed, err := models.Close(issue, s.tech, "duplicate", s.now.Add(time.Minute))
			s.Require().NoError(err)
			s.Equal(issue.Status(), closed.ClosedFrom)
			s.Equal(models.StatusClosed, closed.Status())
		}
	})

	s.Run("terminal issues reject close", func() {
		work := s.open().Acknowledge(s.tech, s.now).StartWork(s.tech, s.now)
		resolved, err := work.Resolve(s.tech, "fixed", s.now)
		s.Require().NoError(err)
		_, err = models.Close(resolved, s.tech, "", s.now)
		s.ErrorIs(err, models.ErrIssueAlreadyClosed)

		closed, err := models.Close(s.open(), s.tech, "", s.now)
		s.Require().NoError(err)
		s.ErrorIs(models.RequireActiveIssue(closed), models.ErrIssueAlreadyClosed)
	})

	s.Run("wrong active state is an invalid state error", func() {
		err := models.WrongStateError(s.open(), models.StatusInProgress)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
		s.NotErrorIs(err, models.ErrIssueAlreadyClosed)
	})
}

func (s *IssueSuite) TestSeverityRaise() {
	s.Equal(models.SeverityMedium, models.SeverityLow.Raise())
	s.Equal(models.SeverityHigh, models.SeverityMedium.Raise())
	s.Equal(models.SeverityCritical, models.SeverityHigh.Raise())
	s.Equal(models.SeverityCritical, models.SeverityCritical.Raise())
}

func (s *IssueSuite) TestRestoreTarget() {
	ref := uuid.New()
	target, err := models.RestoreTarget(models.TargetConsumable, ref)
	s.Require().NoError(err)
	stockID, ok := target.ConsumableStockID()
	s.True(ok)
	s.Equal(id.ConsumableStockID(ref), stockID)

	_, err = models.RestoreTarget("vehicle", ref)
	s.Error(err)
}
