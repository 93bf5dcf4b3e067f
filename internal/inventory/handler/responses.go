package handler

import (
	"time"

	"rigcheck/internal/inventory/models"
	"rigcheck/internal/inventory/service"
	issuemodels "rigcheck/internal/issue/models"
)

type CheckProgressResponse struct {
	TotalItems       int `json:"total_items"`
	VerifiedCount    int `json:"verified_count"`
	IssuesFoundCount int `json:"issues_found_count"`
	Percentage       int `json:"percentage"`
}

// CheckResponse is the wire form of every check variant.
type CheckResponse struct {
	ID             string                `json:"id"`
	Status         string                `json:"status"`
	ApparatusID    string                `json:"apparatus_id"`
	StationID      string                `json:"station_id"`
	PerformerID    string                `json:"performer_id"`
	StartedAt      time.Time             `json:"started_at"`
	LastActivityAt *time.Time            `json:"last_activity_at,omitempty"`
	CompletedAt    *time.Time            `json:"completed_at,omitempty"`
	AbandonedAt    *time.Time            `json:"abandoned_at,omitempty"`
	AbandonReason  string                `json:"abandon_reason,omitempty"`
	ResumeDeadline *time.Time            `json:"resume_deadline,omitempty"`
	Progress       CheckProgressResponse `json:"progress"`
}

func toCheckResponse(check models.InventoryCheck) CheckResponse {
	h := check.Header()
	resp := CheckResponse{
		ID:          h.ID.String(),
		Status:      string(check.Status()),
		ApparatusID: h.ApparatusID.String(),
		StationID:   h.StationID.String(),
		PerformerID: h.PerformerID.String(),
		StartedAt:   h.StartedAt,
		Progress: CheckProgressResponse{
			TotalItems:       h.Progress.TotalItems,
			VerifiedCount:    h.Progress.VerifiedCount,
			IssuesFoundCount: h.Progress.IssuesFoundCount,
			Percentage:       h.Progress.Percentage(),
		},
	}
	switch c := check.(type) {
	case *models.InProgressCheck:
		resp.LastActivityAt = &c.LastActivityAt
	case *models.CompletedCheck:
		resp.CompletedAt = &c.CompletedAt
	case *models.AbandonedCheck:
		deadline := c.ResumeDeadline()
		resp.LastActivityAt = &c.LastActivityAt
		resp.AbandonedAt = &c.AbandonedAt
		resp.AbandonReason = c.Reason
		resp.ResumeDeadline = &deadline
	}
	return resp
}

type AuditProgressResponse struct {
	TotalItems           int `json:"total_items"`
	AuditedCount         int `json:"audited_count"`
	IssuesFoundCount     int `json:"issues_found_count"`
	UnexpectedItemsCount int `json:"unexpected_items_count"`
	Percentage           int `json:"percentage"`
}

// AuditResponse is the wire form of every audit variant.
type AuditResponse struct {
	ID             string                `json:"id"`
	Status         string                `json:"status"`
	ApparatusID    string                `json:"apparatus_id"`
	StationID      string                `json:"station_id"`
	PerformerID    string                `json:"performer_id"`
	StartedAt      time.Time             `json:"started_at"`
	LastActivityAt time.Time             `json:"last_activity_at"`
	Notes          string                `json:"notes,omitempty"`
	PausedAt       *time.Time            `json:"paused_at,omitempty"`
	CompletedAt    *time.Time            `json:"completed_at,omitempty"`
	AbandonedAt    *time.Time            `json:"abandoned_at,omitempty"`
	AbandonReason  string                `json:"abandon_reason,omitempty"`
	ReopenDeadline *time.Time            `json:"reopen_deadline,omitempty"`
	IsStale        bool                  `json:"is_stale"`
	Progress       AuditProgressResponse `json:"progress"`
}

// toAuditResponse renders fa as seen at now. Only in-progress audits can be stale.
func toAuditResponse(fa models.FormalAudit, now time.Time) AuditResponse {
	h := fa.Header()
	resp := AuditResponse{
		ID:             h.ID.String(),
		Status:         string(fa.Status()),
		ApparatusID:    h.ApparatusID.String(),
		StationID:      h.StationID.String(),
		PerformerID:    h.PerformerID.String(),
		StartedAt:      h.StartedAt,
		LastActivityAt: h.LastActivityAt,
		Notes:          h.Notes,
		Progress: AuditProgressResponse{
			TotalItems:           h.Progress.TotalItems,
			AuditedCount:         h.Progress.AuditedCount,
			IssuesFoundCount:     h.Progress.IssuesFoundCount,
			UnexpectedItemsCount: h.Progress.UnexpectedItemsCount,
			Percentage:           h.Progress.Percentage(),
		},
	}
	switch a := fa.(type) {
	case *models.InProgressAudit:
		resp.PausedAt = a.PausedAt
		resp.IsStale = a.IsStale(now)
	case *models.CompletedAudit:
		resp.CompletedAt = &a.CompletedAt
	case *models.AbandonedAudit:
		deadline := a.ResumeDeadline()
		resp.AbandonedAt = &a.AbandonedAt
		resp.AbandonReason = a.Reason
		resp.ReopenDeadline = &deadline
	}
	return resp
}

func toAuditList(audits []*models.InProgressAudit, now time.Time) []AuditResponse {
	out := make([]AuditResponse, 0, len(audits))
	for _, a := range audits {
		out = append(out, toAuditResponse(a, now))
	}
	return out
}

type targetResponse struct {
	EquipmentItemID   string `json:"equipment_item_id,omitempty"`
	ConsumableStockID string `json:"consumable_stock_id,omitempty"`
}

func toTarget(t models.VerificationTarget) targetResponse {
	var out targetResponse
	if itemID, ok := t.EquipmentItemID(); ok {
		out.EquipmentItemID = itemID.String()
	}
	if stockID, ok := t.ConsumableStockID(); ok {
		out.ConsumableStockID = stockID.String()
	}
	return out
}

type CheckItemResponse struct {
	ID string `json:"id"`
	targetResponse
	CompartmentID    string    `json:"compartment_id"`
	ManifestEntryID  string    `json:"manifest_entry_id,omitempty"`
	Status           string    `json:"status"`
	QuantityFound    *int      `json:"quantity_found,omitempty"`
	QuantityExpected *int      `json:"quantity_expected,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	VerifiedBy       string    `json:"verified_by"`
	VerifiedAt       time.Time `json:"verified_at"`
	IssueID          string    `json:"issue_id,omitempty"`
}

func toCheckItem(item *models.InventoryCheckItem) CheckItemResponse {
	resp := CheckItemResponse{
		ID:               item.ID.String(),
		targetResponse:   toTarget(item.Target),
		CompartmentID:    item.CompartmentID.String(),
		Status:           string(item.Status),
		QuantityFound:    item.Quantities.Found,
		QuantityExpected: item.Quantities.Expected,
		Notes:            item.ConditionNotes,
		VerifiedBy:       item.VerifiedBy.String(),
		VerifiedAt:       item.VerifiedAt,
	}
	if item.ManifestEntryID != nil {
		resp.ManifestEntryID = item.ManifestEntryID.String()
	}
	if item.IssueID != nil {
		resp.IssueID = item.IssueID.String()
	}
	return resp
}

func toCheckItems(items []*models.InventoryCheckItem) []CheckItemResponse {
	out := make([]CheckItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toCheckItem(item))
	}
	return out
}

type AuditItemResponse struct {
	ID string `json:"id"`
	targetResponse
	CompartmentID    string    `json:"compartment_id"`
	ManifestEntryID  string    `json:"manifest_entry_id,omitempty"`
	Status           string    `json:"status"`
	IsUnexpected     bool      `json:"is_unexpected"`
	Condition        string    `json:"condition"`
	TestResult       string    `json:"test_result"`
	ExpiryStatus     string    `json:"expiry_status"`
	QuantityFound    *int      `json:"quantity_found,omitempty"`
	QuantityExpected *int      `json:"quantity_expected,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	AuditedBy        string    `json:"audited_by"`
	AuditedAt        time.Time `json:"audited_at"`
	IssueID          string    `json:"issue_id,omitempty"`
}

func toAuditItem(item *models.FormalAuditItem) AuditItemResponse {
	resp := AuditItemResponse{
		ID:               item.ID.String(),
		targetResponse:   toTarget(item.Target),
		CompartmentID:    item.CompartmentID.String(),
		Status:           string(item.Status),
		IsUnexpected:     item.IsUnexpected,
		Condition:        string(item.Condition),
		TestResult:       string(item.TestResult),
		ExpiryStatus:     string(item.ExpiryStatus),
		QuantityFound:    item.Quantities.Found,
		QuantityExpected: item.Quantities.Expected,
		Notes:            item.Notes,
		AuditedBy:        item.AuditedBy.String(),
		AuditedAt:        item.AuditedAt,
	}
	if item.ManifestEntryID != nil {
		resp.ManifestEntryID = item.ManifestEntryID.String()
	}
	if item.IssueID != nil {
		resp.IssueID = item.IssueID.String()
	}
	return resp
}

func toAuditItems(items []*models.FormalAuditItem) []AuditItemResponse {
	out := make([]AuditItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toAuditItem(item))
	}
	return out
}

// RaisedIssueResponse summarises the issue opened by an adverse item.
type RaisedIssueResponse struct {
	ID                   string `json:"id"`
	Category             string `json:"category"`
	Severity             string `json:"severity"`
	IsCrewResponsibility bool   `json:"is_crew_responsibility"`
}

func toRaisedIssue(issue *issuemodels.OpenIssue) *RaisedIssueResponse {
	if issue == nil {
		return nil
	}
	return &RaisedIssueResponse{
		ID:                   issue.ID.String(),
		Category:             string(issue.Category),
		Severity:             string(issue.Severity),
		IsCrewResponsibility: issue.IsCrewResponsibility,
	}
}

type VerifyItemResponse struct {
	Check CheckResponse        `json:"check"`
	Item  CheckItemResponse    `json:"item"`
	Issue *RaisedIssueResponse `json:"issue,omitempty"`
}

func toVerifyResponse(res *service.VerifyCheckResult) VerifyItemResponse {
	return VerifyItemResponse{
		Check: toCheckResponse(res.Check),
		Item:  toCheckItem(res.Item),
		Issue: toRaisedIssue(res.Issue),
	}
}

type AuditItemResultResponse struct {
	Audit AuditResponse        `json:"audit"`
	Item  AuditItemResponse    `json:"item"`
	Issue *RaisedIssueResponse `json:"issue,omitempty"`
}

func toAuditItemResult(res *service.AuditItemResult, now time.Time) AuditItemResultResponse {
	return AuditItemResultResponse{
		Audit: toAuditResponse(res.Audit, now),
		Item:  toAuditItem(res.Item),
		Issue: toRaisedIssue(res.Issue),
	}
}
