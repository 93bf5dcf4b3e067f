package access_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rigcheck/internal/access"
	"rigcheck/internal/access/store"
	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
)

func TestEvaluator(t *testing.T) {
	ctx := context.Background()
	dir := store.NewInMemoryDirectory()
	stationA := id.StationID(uuid.New())
	stationB := id.StationID(uuid.New())
	engine := id.ApparatusID(uuid.New())
	dir.PlaceApparatus(engine, stationA)

	firefighter := id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleFirefighter}
	dir.Assign(firefighter.ID, stationA)
	tech := id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleMaintenanceTechnician}

	e := access.NewEvaluator(dir)

	t.Run("resolves the apparatus station", func(t *testing.T) {
		got, err := e.StationIDFor(ctx, engine)
		require.NoError(t, err)
		assert.Equal(t, stationA, got)
	})

	t.Run("unknown apparatus is not found", func(t *testing.T) {
		_, err := e.StationIDFor(ctx, id.ApparatusID(uuid.New()))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("firefighters are scoped to assignments", func(t *testing.T) {
		ok, err := e.CanAccessStation(ctx, firefighter, stationA)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = e.CanAccessStation(ctx, firefighter, stationB)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("technicians see every station", func(t *testing.T) {
		ok, err := e.CanAccessStation(ctx, tech, stationB)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unknown roles are denied", func(t *testing.T) {
		ok, err := e.CanAccessStation(ctx, id.Actor{ID: firefighter.ID, Role: "visitor"}, stationA)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
