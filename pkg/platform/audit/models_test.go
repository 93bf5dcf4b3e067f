package audit

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "rigcheck/pkg/domain"
)

func TestAuditEvent_Category(t *testing.T) {
	assert.Equal(t, CategoryCompliance, EventCheckCompleted.Category())
	assert.Equal(t, CategoryCompliance, EventIssueClosed.Category())
	assert.Equal(t, CategorySecurity, EventAccessDenied.Category())
	assert.Equal(t, CategoryOperations, EventAuditPaused.Category())
	assert.Equal(t, CategoryOperations, AuditEvent("something_new").Category())
	assert.Len(t, Categories(), 3)
}

func TestPayload_Event(t *testing.T) {
	eventID := uuid.New()
	event := Event{
		Category:    CategoryCompliance,
		Timestamp:   time.Date(2026, 4, 12, 6, 15, 0, 123, time.UTC),
		ActorID:     id.UserID(uuid.New()),
		ActorRole:   string(id.RoleMaintenanceTechnician),
		Action:      string(EventAuditCompleted),
		SubjectType: SubjectFormalAudit,
		SubjectID:   uuid.NewString(),
		ApparatusID: uuid.NewString(),
	}

	gotID, got, err := NewPayload(eventID, event).Event()
	require.NoError(t, err)
	assert.Equal(t, eventID, gotID)
	if diff := cmp.Diff(event, got); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestPayload_SystemActorAndBadInput(t *testing.T) {
	p := NewPayload(uuid.New(), Event{Action: string(EventCheckAbandoned), Timestamp: time.Now()})
	assert.Empty(t, p.ActorID)
	_, got, err := p.Event()
	require.NoError(t, err)
	assert.True(t, got.ActorID.IsNil())

	_, _, err = Payload{ID: "nope"}.Event()
	assert.ErrorContains(t, err, "parse event id")

	_, _, err = Payload{ID: uuid.NewString(), Timestamp: "yesterday"}.Event()
	assert.ErrorContains(t, err, "parse timestamp")
}
