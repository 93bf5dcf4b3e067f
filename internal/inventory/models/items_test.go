package models_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rigcheck/internal/inventory/models"
	"rigcheck/internal/inventory/models/modelstest"
	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
)

func intPtr(v int) *int { return &v }

func TestQuantityDiscrepancy(t *testing.T) {
	cases := []struct {
		name    string
		q       models.Quantities
		exceeds bool
	}{
		{"exactly twenty percent", models.Quantities{Found: intPtr(8), Expected: intPtr(10)}, false},
		{"just over twenty percent", models.Quantities{Found: intPtr(7), Expected: intPtr(10)}, true},
		{"surplus counts too", models.Quantities{Found: intPtr(13), Expected: intPtr(10)}, true},
		{"zero expected never applies", models.Quantities{Found: intPtr(5), Expected: intPtr(0)}, false},
		{"missing found never applies", models.Quantities{Expected: intPtr(10)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.exceeds, tc.q.DiscrepancyExceedsThreshold())
		})
	}
}

func TestVerifyCheckItemRequest(t *testing.T) {
	stock := modelstest.Consumable(id.ConsumableStockID(uuid.New()))
	equipment := modelstest.Equipment(id.EquipmentItemID(uuid.New()))
	compartment := id.CompartmentID(uuid.New())

	t.Run("discrepancy without notes is rejected", func(t *testing.T) {
		req := models.VerifyCheckItemRequest{
			Target:        stock,
			CompartmentID: compartment,
			Status:        "low_quantity",
			Quantities:    models.Quantities{Found: intPtr(3), Expected: intPtr(10)},
			Notes:         "   ",
		}
		req.Normalize()
		assert.ErrorIs(t, req.Validate(), models.ErrQuantityDiscrepancyRequiresNotes)
	})

	t.Run("discrepancy with notes is accepted", func(t *testing.T) {
		req := models.VerifyCheckItemRequest{
			Target:        stock,
			CompartmentID: compartment,
			Status:        models.CheckItemLowQuantity,
			Quantities:    models.Quantities{Found: intPtr(3), Expected: intPtr(10)},
			Notes:         "used on call 2211",
		}
		req.Normalize()
		require.NoError(t, req.Validate())
	})

	t.Run("quantities on equipment are rejected", func(t *testing.T) {
		req := models.VerifyCheckItemRequest{
			Target:        equipment,
			CompartmentID: compartment,
			Status:        models.CheckItemPresent,
			Quantities:    models.Quantities{Found: intPtr(1)},
		}
		err := req.Validate()
		assert.ErrorIs(t, err, models.ErrQuantityOnEquipment)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		req := models.VerifyCheckItemRequest{Target: equipment, CompartmentID: compartment, Status: "BROKEN"}
		assert.True(t, dErrors.HasCode(req.Validate(), dErrors.CodeValidation))
	})

	t.Run("negative quantities are rejected", func(t *testing.T) {
		req := models.VerifyCheckItemRequest{
			Target:        stock,
			CompartmentID: compartment,
			Status:        models.CheckItemPresent,
			Quantities:    models.Quantities{Found: intPtr(-1), Expected: intPtr(4)},
		}
		assert.Error(t, req.Validate())
	})
}

func TestNewInventoryCheckItem(t *testing.T) {
	now := time.Date(2026, 1, 9, 8, 0, 0, 0, time.UTC)
	params := models.NewInventoryCheckItemParams{
		ID:            id.NewCheckItemID(),
		CheckID:       id.NewCheckID(),
		Target:        modelstest.Equipment(id.EquipmentItemID(uuid.New())),
		CompartmentID: id.CompartmentID(uuid.New()),
		Status:        models.CheckItemMissing,
		VerifiedBy:    id.UserID(uuid.New()),
		VerifiedAt:    now,
	}

	item, err := models.NewInventoryCheckItem(params)
	require.NoError(t, err)
	assert.Nil(t, item.IssueID)

	issueID := id.NewIssueID()
	linked, err := item.WithIssue(issueID)
	require.NoError(t, err)
	require.NotNil(t, linked.IssueID)
	assert.Equal(t, issueID, *linked.IssueID)
	assert.Nil(t, item.IssueID)

	_, err = linked.WithIssue(id.NewIssueID())
	assert.Error(t, err, "issue link is set once")
}

func TestNewFormalAuditItem(t *testing.T) {
	base := models.NewFormalAuditItemParams{
		ID:            id.NewAuditItemID(),
		AuditID:       id.NewAuditID(),
		Target:        modelstest.Equipment(id.EquipmentItemID(uuid.New())),
		CompartmentID: id.CompartmentID(uuid.New()),
		Status:        models.AuditItemVerified,
		AuditedBy:     id.UserID(uuid.New()),
		AuditedAt:     time.Date(2026, 1, 9, 8, 0, 0, 0, time.UTC),
	}

	t.Run("defaults inspection fields", func(t *testing.T) {
		item, err := models.NewFormalAuditItem(base)
		require.NoError(t, err)
		assert.Equal(t, models.ConditionGood, item.Condition)
		assert.Equal(t, models.TestNotTested, item.TestResult)
		assert.Equal(t, models.ExpiryNotApplicable, item.ExpiryStatus)
	})

	t.Run("unexpected items cannot reference the manifest", func(t *testing.T) {
		p := base
		entry := id.ManifestEntryID(uuid.New())
		p.IsUnexpected = true
		p.ManifestEntryID = &entry
		_, err := models.NewFormalAuditItem(p)
		assert.Error(t, err)
	})

	t.Run("adverse statuses", func(t *testing.T) {
		assert.False(t, models.AuditItemVerified.IsAdverse())
		assert.True(t, models.AuditItemFailedInspection.IsAdverse())
		assert.False(t, models.CheckItemSkipped.IsAdverse())
		assert.False(t, models.CheckItemPresent.IsAdverse())
		assert.True(t, models.CheckItemPresentDamaged.IsAdverse())
	})
}
