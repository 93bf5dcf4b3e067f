package handler

import (
	"time"

	"rigcheck/internal/issue/models"
)

// IssueResponse is the wire form of every issue variant. Lifecycle fields are present
// only once the issue has reached the corresponding state.
type IssueResponse struct {
	ID                   string     `json:"id"`
	Status               string     `json:"status"`
	TargetKind           string     `json:"target_kind"`
	TargetID             string     `json:"target_id,omitempty"`
	ApparatusID          string     `json:"apparatus_id"`
	StationID            string     `json:"station_id"`
	Category             string     `json:"category"`
	Severity             string     `json:"severity"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	ReporterID           string     `json:"reporter_id"`
	ReportedAt           time.Time  `json:"reported_at"`
	IsCrewResponsibility bool       `json:"is_crew_responsibility"`
	UpdatedAt            time.Time  `json:"updated_at"`
	AcknowledgedBy       string     `json:"acknowledged_by,omitempty"`
	AcknowledgedAt       *time.Time `json:"acknowledged_at,omitempty"`
	StartedBy            string     `json:"started_by,omitempty"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	ResolvedBy           string     `json:"resolved_by,omitempty"`
	ResolvedAt           *time.Time `json:"resolved_at,omitempty"`
	ResolutionNotes      string     `json:"resolution_notes,omitempty"`
	ClosedFrom           string     `json:"closed_from,omitempty"`
	ClosedBy             string     `json:"closed_by,omitempty"`
	ClosedAt             *time.Time `json:"closed_at,omitempty"`
	CloseReason          string     `json:"close_reason,omitempty"`
}

type IssueListResponse struct {
	Issues []IssueResponse `json:"issues"`
}

func toIssueResponse(issue models.Issue) IssueResponse {
	h := issue.Header()
	resp := IssueResponse{
		ID:                   h.ID.String(),
		Status:               string(issue.Status()),
		TargetKind:           string(h.Target.Kind()),
		ApparatusID:          h.ApparatusID.String(),
		StationID:            h.StationID.String(),
		Category:             string(h.Category),
		Severity:             string(h.Severity),
		Title:                h.Title,
		Description:          h.Description,
		ReporterID:           h.ReporterID.String(),
		ReportedAt:           h.ReportedAt,
		IsCrewResponsibility: h.IsCrewResponsibility,
		UpdatedAt:            h.UpdatedAt,
	}
	if h.Target.Kind() != models.TargetApparatus {
		resp.TargetID = h.Target.Ref().String()
	}

	switch v := issue.(type) {
	case *models.AcknowledgedIssue:
		acknowledged(&resp, v)
	case *models.InProgressIssue:
		inProgress(&resp, v)
	case *models.ResolvedIssue:
		inProgress(&resp, &v.InProgressIssue)
		resp.ResolvedBy = v.ResolvedBy.String()
		resp.ResolvedAt = &v.ResolvedAt
		resp.ResolutionNotes = v.ResolutionNotes
	case *models.ClosedIssue:
		resp.ClosedFrom = string(v.ClosedFrom)
		resp.ClosedBy = v.ClosedBy.String()
		resp.ClosedAt = &v.ClosedAt
		resp.CloseReason = v.Reason
	}
	return resp
}

func acknowledged(resp *IssueResponse, v *models.AcknowledgedIssue) {
	resp.AcknowledgedBy = v.AcknowledgedBy.String()
	resp.AcknowledgedAt = &v.AcknowledgedAt
}

func inProgress(resp *IssueResponse, v *models.InProgressIssue) {
	acknowledged(resp, &v.AcknowledgedIssue)
	resp.StartedBy = v.StartedBy.String()
	resp.StartedAt = &v.StartedAt
}

func toIssueList(issues []models.Issue) IssueListResponse {
	out := IssueListResponse{Issues: make([]IssueResponse, 0, len(issues))}
	for _, issue := range issues {
		out.Issues = append(out.Issues, toIssueResponse(issue))
	}
	return out
}
