package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rigcheck/internal/issue/handler/mocks"
	"rigcheck/internal/issue/models"
	"rigcheck/internal/issue/service"
	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
	"rigcheck/pkg/platform/middleware/requesttime"
	"rigcheck/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
	actor   id.Actor
	now     time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.actor = id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleFirefighter}
	s.now = time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC)

	s.router = chi.NewRouter()
	s.router.Use(requesttime.MiddlewareWithClock(func() time.Time { return s.now }))
	s.router.Use(testutil.ActorMiddleware(func() id.Actor { return s.actor }))
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), method, path, body))
}

func (s *HandlerSuite) openIssue() *models.OpenIssue {
	issue, err := models.NewOpenIssue(models.NewOpenIssueParams{
		ID:          id.NewIssueID(),
		Target:      models.ApparatusTarget(),
		ApparatusID: id.ApparatusID(uuid.New()),
		StationID:   id.StationID(uuid.New()),
		Category:    models.CategoryDamage,
		Severity:    models.SeverityMedium,
		Title:       "Dented door",
		ReporterID:  s.actor.ID,
		ReportedAt:  s.now,
	})
	s.Require().NoError(err)
	return issue
}

func (s *HandlerSuite) TestReport() {
	apparatusID := id.ApparatusID(uuid.New())
	itemID := id.EquipmentItemID(uuid.New())
	issue := s.openIssue()

	s.service.EXPECT().ReportIssue(gomock.Any(), s.actor, service.ReportIssueRequest{
		ApparatusID:     apparatusID,
		EquipmentItemID: &itemID,
		Category:        "damage",
		Severity:        "medium",
		Title:           "Dented door",
	}, s.now).Return(issue, nil)

	rec := s.do(http.MethodPost, "/apparatus/"+apparatusID.String()+"/issues", ReportIssueRequest{
		EquipmentItemID: itemID.String(),
		Category:        "damage",
		Severity:        "medium",
		Title:           "Dented door",
	})

	s.Equal(http.StatusCreated, rec.Code)
	var resp IssueResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(issue.ID.String(), resp.ID)
	s.Equal("open", resp.Status)
	s.Equal("apparatus", resp.TargetKind)
	s.Empty(resp.TargetID)
	s.Nil(resp.AcknowledgedAt)
}

func (s *HandlerSuite) TestReport_InvalidIDs() {
	s.Run("bad apparatus id", func() {
		rec := s.do(http.MethodPost, "/apparatus/not-a-uuid/issues", ReportIssueRequest{Title: "x"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
	s.Run("bad item id", func() {
		rec := s.do(http.MethodPost, "/apparatus/"+uuid.NewString()+"/issues", ReportIssueRequest{EquipmentItemID: "nope"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
	s.Run("unknown field", func() {
		req := httptest.NewRequest(http.MethodPost, "/apparatus/"+uuid.NewString()+"/issues", bytes.NewBufferString(`{"colour":"red"}`))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestResolve() {
	issueID := id.NewIssueID()
	open := s.openIssue()
	resolved := &models.ResolvedIssue{
		InProgressIssue: models.InProgressIssue{
			AcknowledgedIssue: models.AcknowledgedIssue{IssueHeader: open.IssueHeader, AcknowledgedBy: s.actor.ID, AcknowledgedAt: s.now},
			StartedBy:         s.actor.ID,
			StartedAt:         s.now,
		},
		ResolvedBy:      s.actor.ID,
		ResolvedAt:      s.now,
		ResolutionNotes: "hinge replaced",
	}
	s.service.EXPECT().ResolveIssue(gomock.Any(), s.actor, issueID, "hinge replaced", s.now).Return(resolved, nil)

	rec := s.do(http.MethodPost, "/issues/"+issueID.String()+"/resolve", ResolveIssueRequest{Notes: "hinge replaced"})

	s.Equal(http.StatusOK, rec.Code)
	var resp IssueResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("resolved", resp.Status)
	s.Equal("hinge replaced", resp.ResolutionNotes)
	s.NotNil(resp.AcknowledgedAt)
	s.NotNil(resp.StartedAt)
	s.NotNil(resp.ResolvedAt)
}

func (s *HandlerSuite) TestErrorMapping() {
	issueID := id.NewIssueID()
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"forbidden", dErrors.New(dErrors.CodeForbidden, "no access to this station"), http.StatusForbidden},
		{"not found", dErrors.New(dErrors.CodeNotFound, "issue not found"), http.StatusNotFound},
		{"terminal", models.ErrIssueAlreadyClosed, http.StatusConflict},
		{"internal", dErrors.Wrap(io.ErrUnexpectedEOF, dErrors.CodeInternal, "failed to load issue"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.service.EXPECT().AcknowledgeIssue(gomock.Any(), s.actor, issueID, s.now).Return(nil, tc.err)
			rec := s.do(http.MethodPost, "/issues/"+issueID.String()+"/acknowledge", nil)
			s.Equal(tc.status, rec.Code)
			var body map[string]any
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
			s.Equal(string(dErrors.CodeOf(tc.err)), body["error"])
		})
	}
}

func (s *HandlerSuite) TestListOpen() {
	stationID := id.StationID(uuid.New())
	s.service.EXPECT().ListOpenIssues(gomock.Any(), s.actor, stationID).Return([]models.Issue{s.openIssue(), s.openIssue()}, nil)

	rec := s.do(http.MethodGet, "/stations/"+stationID.String()+"/issues", nil)

	s.Equal(http.StatusOK, rec.Code)
	var resp IssueListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Len(resp.Issues, 2)
}

func (s *HandlerSuite) TestUnauthenticated() {
	rec := testutil.DoRequest(s.router, testutil.Anonymous(httptest.NewRequest(http.MethodGet, "/issues/"+uuid.NewString(), nil)))
	s.Equal(http.StatusUnauthorized, rec.Code)
}
