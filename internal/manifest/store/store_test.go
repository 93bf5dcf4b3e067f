package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rigcheck/internal/manifest/models"
	id "rigcheck/pkg/domain"
)

var columns = []string{"id", "apparatus_id", "compartment_id", "equipment_type_id", "required_quantity", "is_critical"}

func TestInMemoryStore_ReturnsCopy(t *testing.T) {
	s := NewInMemoryStore()
	apparatusID := id.ApparatusID(uuid.New())
	entry := models.Entry{ID: id.ManifestEntryID(uuid.New()), ApparatusID: apparatusID, RequiredQuantity: 2}
	s.Put(apparatusID, entry)

	got, err := s.EntriesForApparatus(context.Background(), apparatusID)
	require.NoError(t, err)
	got[0].RequiredQuantity = 99

	again, err := s.EntriesForApparatus(context.Background(), apparatusID)
	require.NoError(t, err)
	assert.Equal(t, 2, again[0].RequiredQuantity)

	empty, err := s.EntriesForApparatus(context.Background(), id.ApparatusID(uuid.New()))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostgresStore_EntriesForApparatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewPostgres(db)

	apparatusID := uuid.New()
	compartmentID := uuid.New()
	first, second := uuid.New(), uuid.New()
	typeA, typeB := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM manifest_entries`).WithArgs(apparatusID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(first.String(), apparatusID.String(), compartmentID.String(), typeA.String(), 1, true).
			AddRow(second.String(), apparatusID.String(), compartmentID.String(), typeB.String(), 4, false))

	got, err := s.EntriesForApparatus(context.Background(), id.ApparatusID(apparatusID))
	require.NoError(t, err)

	want := models.Snapshot{
		{
			ID:               id.ManifestEntryID(first),
			ApparatusID:      id.ApparatusID(apparatusID),
			CompartmentID:    id.CompartmentID(compartmentID),
			EquipmentTypeID:  id.EquipmentTypeID(typeA),
			RequiredQuantity: 1,
			IsCritical:       true,
		},
		{
			ID:               id.ManifestEntryID(second),
			ApparatusID:      id.ApparatusID(apparatusID),
			CompartmentID:    id.CompartmentID(compartmentID),
			EquipmentTypeID:  id.EquipmentTypeID(typeB),
			RequiredQuantity: 4,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	entry, ok := got.Find(id.ManifestEntryID(second))
	require.True(t, ok)
	assert.Equal(t, 4, entry.RequiredQuantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Errors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewPostgres(db)
	apparatusID := uuid.New()

	mock.ExpectQuery(`FROM manifest_entries`).WithArgs(apparatusID).WillReturnError(errors.New("boom"))
	_, err = s.EntriesForApparatus(context.Background(), id.ApparatusID(apparatusID))
	assert.ErrorContains(t, err, "query manifest entries")

	mock.ExpectQuery(`FROM manifest_entries`).WithArgs(apparatusID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(uuid.NewString(), apparatusID.String(), uuid.NewString(), uuid.NewString(), 1, false).
			RowError(0, errors.New("broken row")))
	_, err = s.EntriesForApparatus(context.Background(), id.ApparatusID(apparatusID))
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
