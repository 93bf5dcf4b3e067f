package audit

import (
	"time"

	id "rigcheck/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose so each category can be
// routed to its own topic and retention policy.
type EventCategory string

const (
	// CategoryCompliance covers events a department must be able to reproduce for
	// inspection: completed and abandoned sessions, issue creation and closure.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers access denials.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine progress: session starts, item verifications,
	// pauses and resumes.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from the workflow services inside the same transaction as the state
// change it describes.
type Event struct {
	Category    EventCategory
	Timestamp   time.Time
	ActorID     id.UserID
	ActorRole   string
	Action      string
	SubjectType string
	SubjectID   string
	ApparatusID string
	StationID   string
	Reason      string
	Detail      string
	ClientIP    string
	RequestID   string
}

// Subject types.
const (
	SubjectInventoryCheck = "inventory_check"
	SubjectFormalAudit    = "formal_audit"
	SubjectIssue          = "issue"
	SubjectApparatus      = "apparatus"
	SubjectStation        = "station"
)

type AuditEvent string

const (
	// Inventory check events
	EventCheckStarted      AuditEvent = "check_started"
	EventCheckItemVerified AuditEvent = "check_item_verified"
	EventCheckCompleted    AuditEvent = "check_completed"
	EventCheckAbandoned    AuditEvent = "check_abandoned"
	EventCheckResumed      AuditEvent = "check_resumed"

	// Formal audit events
	EventAuditStarted        AuditEvent = "audit_started"
	EventAuditItemRecorded   AuditEvent = "audit_item_recorded"
	EventAuditUnexpectedItem AuditEvent = "audit_unexpected_item"
	EventAuditPaused         AuditEvent = "audit_paused"
	EventAuditResumed        AuditEvent = "audit_resumed"
	EventAuditCompleted      AuditEvent = "audit_completed"
	EventAuditAbandoned      AuditEvent = "audit_abandoned"
	EventAuditReopened       AuditEvent = "audit_reopened"

	// Issue events
	EventIssueCreated      AuditEvent = "issue_created"
	EventIssueAcknowledged AuditEvent = "issue_acknowledged"
	EventIssueWorkStarted  AuditEvent = "issue_work_started"
	EventIssueResolved     AuditEvent = "issue_resolved"
	EventIssueClosed       AuditEvent = "issue_closed"

	// Access events
	EventAccessDenied AuditEvent = "access_denied"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventCheckCompleted: CategoryCompliance,
	EventCheckAbandoned: CategoryCompliance,
	EventAuditCompleted: CategoryCompliance,
	EventAuditAbandoned: CategoryCompliance,
	EventIssueCreated:   CategoryCompliance,
	EventIssueResolved:  CategoryCompliance,
	EventIssueClosed:    CategoryCompliance,

	EventAccessDenied: CategorySecurity,

	EventCheckStarted:        CategoryOperations,
	EventCheckItemVerified:   CategoryOperations,
	EventCheckResumed:        CategoryOperations,
	EventAuditStarted:        CategoryOperations,
	EventAuditItemRecorded:   CategoryOperations,
	EventAuditUnexpectedItem: CategoryOperations,
	EventAuditPaused:         CategoryOperations,
	EventAuditResumed:        CategoryOperations,
	EventAuditReopened:       CategoryOperations,
	EventIssueAcknowledged:   CategoryOperations,
	EventIssueWorkStarted:    CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Categories lists every category, in topic-creation order.
func Categories() []EventCategory {
	return []EventCategory{CategoryCompliance, CategorySecurity, CategoryOperations}
}
