package handler

import (
	"strings"

	"rigcheck/internal/issue/models"
	"rigcheck/internal/issue/service"
	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
)

// ReportIssueRequest is the body of POST /apparatus/{apparatusID}/issues.
type ReportIssueRequest struct {
	EquipmentItemID   string `json:"equipment_item_id,omitempty"`
	ConsumableStockID string `json:"consumable_stock_id,omitempty"`
	Category          string `json:"category"`
	Severity          string `json:"severity"`
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
}

// toService parses the string ids. Field rules beyond parsing live in the service.
func (r *ReportIssueRequest) toService(apparatusID id.ApparatusID) (service.ReportIssueRequest, error) {
	out := service.ReportIssueRequest{
		ApparatusID: apparatusID,
		Category:    models.Category(r.Category),
		Severity:    models.Severity(r.Severity),
		Title:       r.Title,
		Description: r.Description,
	}
	if raw := strings.TrimSpace(r.EquipmentItemID); raw != "" {
		itemID, err := id.ParseEquipmentItemID(raw)
		if err != nil {
			return service.ReportIssueRequest{}, err
		}
		out.EquipmentItemID = &itemID
	}
	if raw := strings.TrimSpace(r.ConsumableStockID); raw != "" {
		stockID, err := id.ParseConsumableStockID(raw)
		if err != nil {
			return service.ReportIssueRequest{}, err
		}
		out.ConsumableStockID = &stockID
	}
	return out, nil
}

// ResolveIssueRequest is the body of POST /issues/{issueID}/resolve.
type ResolveIssueRequest struct {
	Notes string `json:"notes"`
}

// CloseIssueRequest is the body of POST /issues/{issueID}/close.
type CloseIssueRequest struct {
	Reason string `json:"reason"`
}

func (r *CloseIssueRequest) Validate() error {
	if len(r.Reason) > 1000 {
		return dErrors.New(dErrors.CodeValidation, "reason must be 1000 characters or less")
	}
	return nil
}
