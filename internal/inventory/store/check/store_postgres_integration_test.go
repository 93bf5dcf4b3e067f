//go:build integration

package check_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"rigcheck/internal/inventory/models"
	"rigcheck/internal/inventory/models/modelstest"
	"rigcheck/internal/inventory/store/check"
	id "rigcheck/pkg/domain"
	"rigcheck/pkg/platform/sentinel"
	"rigcheck/pkg/platform/tx"
	"rigcheck/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *check.PostgresStore
	tx       *tx.SQLRunner
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = check.NewPostgres(s.postgres.DB)
	s.tx = tx.NewSQLRunner(s.postgres.DB, 5*time.Second)
	s.now = time.Date(2026, 5, 10, 7, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "inventory_check_items", "inventory_checks"))
}

func (s *PostgresStoreSuite) newCheck(apparatusID id.ApparatusID, startedAt time.Time) *models.InProgressCheck {
	c, err := models.NewInProgressCheck(id.NewCheckID(), apparatusID, id.StationID(uuid.New()), id.UserID(uuid.New()), startedAt, 3)
	s.Require().NoError(err)
	return c
}

func (s *PostgresStoreSuite) TestConcurrentCreateHasOneWinner() {
	ctx := context.Background()
	apparatusID := id.ApparatusID(uuid.New())

	const racers = 10
	var wins, conflicts atomic.Int32
	var wg sync.WaitGroup
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
				return s.store.Create(txCtx, s.newCheck(apparatusID, s.now))
			})
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			default:
				s.T().Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
	s.Equal(int32(racers-1), conflicts.Load())

	active, err := s.store.FindActiveByApparatus(ctx, apparatusID)
	s.Require().NoError(err)
	s.Equal(apparatusID, active.ApparatusID)
}

func (s *PostgresStoreSuite) TestResumeConflictsWithNewerActiveCheck() {
	ctx := context.Background()
	apparatusID := id.ApparatusID(uuid.New())

	first := s.newCheck(apparatusID, s.now)
	s.Require().NoError(s.store.Create(ctx, first))
	abandoned, err := first.Abandon(s.now.Add(time.Minute), "called out")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(ctx, abandoned))

	second := s.newCheck(apparatusID, s.now.Add(2*time.Minute))
	s.Require().NoError(s.store.Create(ctx, second))

	resumed, err := abandoned.Resume(s.now.Add(5 * time.Minute))
	s.Require().NoError(err)
	s.ErrorIs(s.store.Save(ctx, resumed), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestDuplicateItemRejected() {
	ctx := context.Background()
	c := s.newCheck(id.ApparatusID(uuid.New()), s.now)
	s.Require().NoError(s.store.Create(ctx, c))

	target := modelstest.Equipment(id.EquipmentItemID(uuid.New()))
	newItem := func() *models.InventoryCheckItem {
		item, err := models.NewInventoryCheckItem(models.NewInventoryCheckItemParams{
			ID:            id.NewCheckItemID(),
			CheckID:       c.ID,
			Target:        target,
			CompartmentID: id.CompartmentID(uuid.New()),
			Status:        models.CheckItemPresent,
			VerifiedBy:    c.PerformerID,
			VerifiedAt:    s.now.Add(time.Minute),
		})
		s.Require().NoError(err)
		return item
	}

	s.Require().NoError(s.store.AddItem(ctx, newItem()))
	s.ErrorIs(s.store.AddItem(ctx, newItem()), sentinel.ErrAlreadyUsed)

	exists, err := s.store.ItemExists(ctx, c.ID, target)
	s.Require().NoError(err)
	s.True(exists)

	items, err := s.store.ListItems(ctx, c.ID)
	s.Require().NoError(err)
	s.Len(items, 1)
}

func (s *PostgresStoreSuite) TestListStale() {
	ctx := context.Background()
	old := s.newCheck(id.ApparatusID(uuid.New()), s.now.Add(-5*time.Hour))
	boundary := s.newCheck(id.ApparatusID(uuid.New()), s.now.Add(-4*time.Hour))
	fresh := s.newCheck(id.ApparatusID(uuid.New()), s.now.Add(-3*time.Hour))
	for _, c := range []*models.InProgressCheck{fresh, boundary, old} {
		s.Require().NoError(s.store.Create(ctx, c))
	}

	stale, err := s.store.ListStale(ctx, s.now.Add(-4*time.Hour))
	s.Require().NoError(err)
	s.Equal([]id.CheckID{old.ID, boundary.ID}, stale)
}
