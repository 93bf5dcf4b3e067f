package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ManifestProvider,EquipmentStore,IssueCreator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rigcheck/internal/access"
	accessstore "rigcheck/internal/access/store"
	equipment "rigcheck/internal/equipment/models"
	equipmentstore "rigcheck/internal/equipment/store"
	"rigcheck/internal/inventory/models"
	"rigcheck/internal/inventory/models/modelstest"
	"rigcheck/internal/inventory/service/mocks"
	auditstore "rigcheck/internal/inventory/store/audit"
	checkstore "rigcheck/internal/inventory/store/check"
	issuemodels "rigcheck/internal/issue/models"
	issueservice "rigcheck/internal/issue/service"
	issuestore "rigcheck/internal/issue/store"
	manifest "rigcheck/internal/manifest/models"
	manifeststore "rigcheck/internal/manifest/store"
	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
	audit "rigcheck/pkg/platform/audit"
	"rigcheck/pkg/platform/audit/publisher"
	auditmemory "rigcheck/pkg/platform/audit/store/memory"
	"rigcheck/pkg/platform/tx"
)

type ServiceSuite struct {
	suite.Suite
	checks    *checkstore.InMemoryStore
	audits    *auditstore.InMemoryStore
	equipment *equipmentstore.InMemoryStore
	manifests *manifeststore.InMemoryStore
	directory *accessstore.InMemoryDirectory
	issues    *issuestore.InMemoryStore
	events    *auditmemory.InMemoryStore
	runner    *tx.MemoryRunner
	service   *Service

	apparatusID id.ApparatusID
	stationID   id.StationID
	compartment id.CompartmentID
	halligan    id.EquipmentItemID
	radio       id.EquipmentItemID
	gauze       id.ConsumableStockID
	criticalRef id.ManifestEntryID

	firefighter id.Actor
	colleague   id.Actor
	outsider    id.Actor
	technician  id.Actor
	now         time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.checks = checkstore.NewInMemoryStore()
	s.audits = auditstore.NewInMemoryStore()
	s.equipment = equipmentstore.NewInMemoryStore()
	s.manifests = manifeststore.NewInMemoryStore()
	s.directory = accessstore.NewInMemoryDirectory()
	s.issues = issuestore.NewInMemoryStore()
	s.events = auditmemory.NewInMemoryStore()
	s.runner = tx.NewMemoryRunner(s.checks, s.audits, s.equipment, s.issues, s.events)

	s.apparatusID = id.ApparatusID(uuid.New())
	s.stationID = id.StationID(uuid.New())
	s.compartment = id.CompartmentID(uuid.New())
	s.halligan = id.EquipmentItemID(uuid.New())
	s.radio = id.EquipmentItemID(uuid.New())
	s.gauze = id.ConsumableStockID(uuid.New())
	s.criticalRef = id.ManifestEntryID(uuid.New())
	s.now = time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

	s.firefighter = id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleFirefighter}
	s.colleague = id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleFirefighter}
	s.outsider = id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleFirefighter}
	s.technician = id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleMaintenanceTechnician}

	s.directory.PlaceApparatus(s.apparatusID, s.stationID)
	s.directory.Assign(s.firefighter.ID, s.stationID)
	s.directory.Assign(s.colleague.ID, s.stationID)

	halliganType := id.EquipmentTypeID(uuid.New())
	radioType := id.EquipmentTypeID(uuid.New())
	gauzeType := id.EquipmentTypeID(uuid.New())
	s.manifests.Put(s.apparatusID,
		manifest.Entry{ID: s.criticalRef, ApparatusID: s.apparatusID, CompartmentID: s.compartment, EquipmentTypeID: halliganType, RequiredQuantity: 1, IsCritical: true},
		manifest.Entry{ID: id.ManifestEntryID(uuid.New()), ApparatusID: s.apparatusID, CompartmentID: s.compartment, EquipmentTypeID: radioType, RequiredQuantity: 1},
		manifest.Entry{ID: id.ManifestEntryID(uuid.New()), ApparatusID: s.apparatusID, CompartmentID: s.compartment, EquipmentTypeID: gauzeType, RequiredQuantity: 10},
	)
	s.equipment.PutItem(equipment.Item{ID: s.halligan, ApparatusID: s.apparatusID, EquipmentTypeID: halliganType, Status: equipment.StatusAvailable, Ownership: equipment.OwnershipCrew})
	s.equipment.PutItem(equipment.Item{ID: s.radio, ApparatusID: s.apparatusID, EquipmentTypeID: radioType, Status: equipment.StatusInService, Ownership: equipment.OwnershipDepartment})
	s.equipment.PutStock(equipment.Stock{ID: s.gauze, ApparatusID: s.apparatusID, EquipmentTypeID: gauzeType, Quantity: 10})

	s.service = s.newService(nil)
}

func (s *ServiceSuite) newService(issues IssueCreator) *Service {
	evaluator := access.NewEvaluator(s.directory)
	pub := publisher.NewPublisher(s.events)
	if issues == nil {
		issues = issueservice.New(s.issues, evaluator, s.runner, issueservice.WithAuditPublisher(pub))
	}
	svc, err := New(Deps{
		Checks:    s.checks,
		Audits:    s.audits,
		Manifests: s.manifests,
		Equipment: s.equipment,
		Issues:    issues,
		Access:    evaluator,
		Tx:        s.runner,
	},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(pub),
	)
	s.Require().NoError(err)
	return svc
}

func (s *ServiceSuite) actions() []string {
	var out []string
	for _, e := range s.events.All() {
		out = append(out, e.Action)
	}
	return out
}

func (s *ServiceSuite) startCheck() *models.InProgressCheck {
	check, err := s.service.StartCheck(context.Background(), s.firefighter, s.apparatusID, s.now)
	s.Require().NoError(err)
	return check
}

func (s *ServiceSuite) verify(checkID id.CheckID, target models.VerificationTarget, status models.CheckItemStatus, at time.Time) (*VerifyCheckResult, error) {
	return s.service.VerifyCheckItem(context.Background(), s.firefighter, checkID, models.VerifyCheckItemRequest{
		Target:        target,
		CompartmentID: s.compartment,
		Status:        status,
	}, at)
}

func (s *ServiceSuite) verifyAll(checkID id.CheckID, at time.Time) {
	for _, target := range []models.VerificationTarget{modelstest.Equipment(s.halligan), modelstest.Equipment(s.radio), modelstest.Consumable(s.gauze)} {
		_, err := s.verify(checkID, target, models.CheckItemPresent, at)
		s.Require().NoError(err)
	}
}

func intPtr(v int) *int { return &v }

func (s *ServiceSuite) TestNew_RequiresCollaborators() {
	_, err := New(Deps{Checks: s.checks})
	s.Error(err)
}

func (s *ServiceSuite) TestStartCheck() {
	s.Run("sizes the check to the manifest", func() {
		check := s.startCheck()
		s.Equal(3, check.Progress.TotalItems)
		s.Equal(s.stationID, check.StationID)
		s.Equal(s.now, check.LastActivityAt)
		s.Equal([]string{string(audit.EventCheckStarted)}, s.actions())
	})

	s.Run("second start names the active check", func() {
		s.SetupTest()
		first := s.startCheck()

		_, err := s.service.StartCheck(context.Background(), s.colleague, s.apparatusID, s.now.Add(time.Minute))
		var active *models.ActiveSessionExistsError
		s.Require().ErrorAs(err, &active)
		s.Equal(uuid.UUID(first.ID), active.SessionID)
		s.Equal(s.firefighter.ID, active.PerformerID)
		s.Equal(s.now, active.StartedAt)
		s.True(dErrors.HasCode(err, dErrors.CodeActiveSession))
	})

	s.Run("unassigned firefighter is refused before any write", func() {
		s.SetupTest()
		_, err := s.service.StartCheck(context.Background(), s.outsider, s.apparatusID, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		_, err = s.checks.FindActiveByApparatus(context.Background(), s.apparatusID)
		s.Error(err)
		s.Equal([]string{string(audit.EventAccessDenied)}, s.actions())
	})
}

func (s *ServiceSuite) TestStartCheck_ConcurrentStartsHaveOneWinner() {
	const starters = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []*models.InProgressCheck
		losers  []*models.ActiveSessionExistsError
	)
	for i := 0; i < starters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			check, err := s.service.StartCheck(context.Background(), s.firefighter, s.apparatusID, s.now)
			mu.Lock()
			defer mu.Unlock()
			var active *models.ActiveSessionExistsError
			switch {
			case err == nil:
				winners = append(winners, check)
			case errors.As(err, &active):
				losers = append(losers, active)
			default:
				s.Failf("unexpected error", "%v", err)
			}
		}()
	}
	wg.Wait()

	s.Require().Len(winners, 1)
	s.Len(losers, starters-1)
	for _, l := range losers {
		s.Equal(uuid.UUID(winners[0].ID), l.SessionID)
	}
}

func (s *ServiceSuite) TestVerifyCheckItem() {
	ctx := context.Background()

	s.Run("present item records progress without an issue", func() {
		check := s.startCheck()
		res, err := s.verify(check.ID, modelstest.Equipment(s.radio), models.CheckItemPresent, s.now.Add(time.Minute))
		s.Require().NoError(err)
		s.Nil(res.Issue)
		s.Equal(1, res.Check.Progress.VerifiedCount)
		s.Equal(0, res.Check.Progress.IssuesFoundCount)
		s.Equal(s.now.Add(time.Minute), res.Check.LastActivityAt)
		status, _ := s.equipment.GetStatus(ctx, s.radio)
		s.Equal(equipment.StatusInService, status)
	})

	s.Run("missing critical crew item raises a critical crew issue and mirrors status", func() {
		s.SetupTest()
		check := s.startCheck()
		res, err := s.service.VerifyCheckItem(ctx, s.firefighter, check.ID, models.VerifyCheckItemRequest{
			Target:          modelstest.Equipment(s.halligan),
			CompartmentID:   s.compartment,
			ManifestEntryID: &s.criticalRef,
			Status:          "missing",
		}, s.now)
		s.Require().NoError(err)
		s.Require().NotNil(res.Issue)
		s.Equal(issuemodels.CategoryMissing, res.Issue.Category)
		s.Equal(issuemodels.SeverityCritical, res.Issue.Severity)
		s.True(res.Issue.IsCrewResponsibility)
		s.Equal(1, res.Check.Progress.IssuesFoundCount)
		s.Require().NotNil(res.Item.IssueID)
		s.Equal(res.Issue.ID, *res.Item.IssueID)

		items, err := s.service.ListCheckItems(ctx, s.firefighter, check.ID)
		s.Require().NoError(err)
		s.Require().Len(items, 1)
		s.Equal(res.Issue.ID, *items[0].IssueID)

		status, _ := s.equipment.GetStatus(ctx, s.halligan)
		s.Equal(equipment.StatusMissing, status)
		s.Equal([]string{
			string(audit.EventCheckStarted),
			string(audit.EventIssueCreated),
			string(audit.EventCheckItemVerified),
		}, s.actions())
	})

	s.Run("low consumable records quantity and a low stock issue", func() {
		s.SetupTest()
		check := s.startCheck()
		res, err := s.service.VerifyCheckItem(ctx, s.firefighter, check.ID, models.VerifyCheckItemRequest{
			Target:        modelstest.Consumable(s.gauze),
			CompartmentID: s.compartment,
			Status:        models.CheckItemLowQuantity,
			Quantities:    models.Quantities{Found: intPtr(2), Expected: intPtr(10)},
			Notes:         "used on last call",
		}, s.now)
		s.Require().NoError(err)
		s.Equal(issuemodels.CategoryLowStock, res.Issue.Category)
		s.Equal(issuemodels.SeverityLow, res.Issue.Severity)
		s.False(res.Issue.IsCrewResponsibility)
		qty, _ := s.equipment.GetQuantity(ctx, s.gauze)
		s.Equal(2, qty)
	})

	s.Run("discrepancy without notes writes nothing", func() {
		s.SetupTest()
		check := s.startCheck()
		_, err := s.service.VerifyCheckItem(ctx, s.firefighter, check.ID, models.VerifyCheckItemRequest{
			Target:        modelstest.Consumable(s.gauze),
			CompartmentID: s.compartment,
			Status:        models.CheckItemPresent,
			Quantities:    models.Quantities{Found: intPtr(7), Expected: intPtr(10)},
		}, s.now)
		s.ErrorIs(err, models.ErrQuantityDiscrepancyRequiresNotes)
		items, _ := s.checks.ListItems(ctx, check.ID)
		s.Empty(items)
		qty, _ := s.equipment.GetQuantity(ctx, s.gauze)
		s.Equal(10, qty)
	})

	s.Run("duplicate target leaves progress untouched", func() {
		s.SetupTest()
		check := s.startCheck()
		_, err := s.verify(check.ID, modelstest.Equipment(s.radio), models.CheckItemPresent, s.now)
		s.Require().NoError(err)

		_, err = s.verify(check.ID, modelstest.Equipment(s.radio), models.CheckItemMissing, s.now.Add(time.Minute))
		var dup *models.ItemAlreadyRecordedError
		s.Require().ErrorAs(err, &dup)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyRecorded))

		current, err := s.service.GetCheck(ctx, s.firefighter, check.ID)
		s.Require().NoError(err)
		s.Equal(1, current.Header().Progress.VerifiedCount)
		status, _ := s.equipment.GetStatus(ctx, s.radio)
		s.Equal(equipment.StatusInService, status)
	})

	s.Run("manifest entry from another apparatus is rejected", func() {
		s.SetupTest()
		check := s.startCheck()
		foreign := id.ManifestEntryID(uuid.New())
		_, err := s.service.VerifyCheckItem(ctx, s.firefighter, check.ID, models.VerifyCheckItemRequest{
			Target:          modelstest.Equipment(s.radio),
			CompartmentID:   s.compartment,
			ManifestEntryID: &foreign,
			Status:          models.CheckItemPresent,
		}, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("item carried on another station's apparatus is rejected before any write", func() {
		s.SetupTest()
		otherApparatus := id.ApparatusID(uuid.New())
		s.directory.PlaceApparatus(otherApparatus, id.StationID(uuid.New()))
		foreign := id.EquipmentItemID(uuid.New())
		s.equipment.PutItem(equipment.Item{ID: foreign, ApparatusID: otherApparatus, EquipmentTypeID: id.EquipmentTypeID(uuid.New()), Status: equipment.StatusAvailable, Ownership: equipment.OwnershipCrew})
		check := s.startCheck()

		_, err := s.verify(check.ID, modelstest.Equipment(foreign), models.CheckItemMissing, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		status, _ := s.equipment.GetStatus(ctx, foreign)
		s.Equal(equipment.StatusAvailable, status)
		items, _ := s.checks.ListItems(ctx, check.ID)
		s.Empty(items)
		open, _ := s.issues.ListOpenByStation(ctx, s.stationID)
		s.Empty(open)
		s.Equal([]string{string(audit.EventCheckStarted)}, s.actions())
	})

	s.Run("stock in station storage is rejected", func() {
		s.SetupTest()
		stored := id.ConsumableStockID(uuid.New())
		s.equipment.PutStock(equipment.Stock{ID: stored, EquipmentTypeID: id.EquipmentTypeID(uuid.New()), Quantity: 40})
		check := s.startCheck()

		_, err := s.service.VerifyCheckItem(ctx, s.firefighter, check.ID, models.VerifyCheckItemRequest{
			Target:        modelstest.Consumable(stored),
			CompartmentID: s.compartment,
			Status:        models.CheckItemLowQuantity,
			Quantities:    models.Quantities{Found: intPtr(1), Expected: intPtr(40)},
			Notes:         "box nearly empty",
		}, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		qty, _ := s.equipment.GetQuantity(ctx, stored)
		s.Equal(40, qty)
	})

	s.Run("target of a different type than the manifest entry is rejected", func() {
		s.SetupTest()
		check := s.startCheck()
		_, err := s.service.VerifyCheckItem(ctx, s.firefighter, check.ID, models.VerifyCheckItemRequest{
			Target:          modelstest.Equipment(s.radio),
			CompartmentID:   s.compartment,
			ManifestEntryID: &s.criticalRef,
			Status:          models.CheckItemMissing,
		}, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		status, _ := s.equipment.GetStatus(ctx, s.radio)
		s.Equal(equipment.StatusInService, status)
	})

	s.Run("unknown item is rejected", func() {
		s.SetupTest()
		check := s.startCheck()
		_, err := s.verify(check.ID, modelstest.Equipment(id.EquipmentItemID(uuid.New())), models.CheckItemPresent, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("entries are resolved against the current manifest while totals keep the start snapshot", func() {
		s.SetupTest()
		check := s.startCheck()
		s.manifests.Put(s.apparatusID)

		_, err := s.service.VerifyCheckItem(ctx, s.firefighter, check.ID, models.VerifyCheckItemRequest{
			Target:          modelstest.Equipment(s.halligan),
			CompartmentID:   s.compartment,
			ManifestEntryID: &s.criticalRef,
			Status:          models.CheckItemPresent,
		}, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		res, err := s.verify(check.ID, modelstest.Equipment(s.halligan), models.CheckItemPresent, s.now)
		s.Require().NoError(err)
		s.Equal(3, res.Check.Progress.TotalItems)
	})

	s.Run("nothing left to verify", func() {
		s.SetupTest()
		check := s.startCheck()
		s.verifyAll(check.ID, s.now)
		_, err := s.verify(check.ID, modelstest.Equipment(id.EquipmentItemID(uuid.New())), models.CheckItemPresent, s.now)
		s.ErrorIs(err, models.ErrAllItemsRecorded)
	})
}

func (s *ServiceSuite) TestVerifyCheckItem_RollsBackWhenIssueCreationFails() {
	ctrl := gomock.NewController(s.T())
	creator := mocks.NewMockIssueCreator(ctrl)
	creator.EXPECT().CreateOpenIssue(gomock.Any(), gomock.Any()).Return(nil, errors.New("issue store down"))
	s.service = s.newService(creator)
	check := s.startCheck()
	ctx := context.Background()

	_, err := s.verify(check.ID, modelstest.Equipment(s.radio), models.CheckItemPresentDamaged, s.now)
	s.Require().Error(err)

	items, _ := s.checks.ListItems(ctx, check.ID)
	s.Empty(items)
	current, _ := s.checks.FindByID(ctx, check.ID)
	s.Equal(0, current.Header().Progress.VerifiedCount)
	status, _ := s.equipment.GetStatus(ctx, s.radio)
	s.Equal(equipment.StatusInService, status)
	s.Equal([]string{string(audit.EventCheckStarted)}, s.actions())
}

func (s *ServiceSuite) TestVerifyCheckItem_RollsBackWhenEquipmentUpdateFails() {
	ctrl := gomock.NewController(s.T())
	store := mocks.NewMockEquipmentStore(ctrl)
	store.EXPECT().ItemPlacement(gomock.Any(), s.halligan).Return(equipment.Placement{ApparatusID: s.apparatusID}, nil)
	store.EXPECT().GetOwnership(gomock.Any(), s.halligan).Return(equipment.OwnershipCrew, nil)
	store.EXPECT().GetStatus(gomock.Any(), s.halligan).Return(equipment.StatusAvailable, nil)
	store.EXPECT().SetStatus(gomock.Any(), s.halligan, equipment.StatusMissing).Return(errors.New("connection reset"))
	s.service.equipment = store
	check := s.startCheck()

	_, err := s.verify(check.ID, modelstest.Equipment(s.halligan), models.CheckItemMissing, s.now)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	open, _ := s.issues.ListOpenByStation(context.Background(), s.stationID)
	s.Empty(open)
	items, _ := s.checks.ListItems(context.Background(), check.ID)
	s.Empty(items)
}

func (s *ServiceSuite) TestCompleteCheck() {
	ctx := context.Background()
	check := s.startCheck()

	_, err := s.verify(check.ID, modelstest.Equipment(s.radio), models.CheckItemPresent, s.now)
	s.Require().NoError(err)
	_, err = s.service.CompleteCheck(ctx, s.firefighter, check.ID, s.now.Add(time.Minute))
	var incomplete *models.IncompleteSessionError
	s.Require().ErrorAs(err, &incomplete)
	s.Equal(2, incomplete.Remaining)

	_, err = s.verify(check.ID, modelstest.Equipment(s.halligan), models.CheckItemPresent, s.now)
	s.Require().NoError(err)
	_, err = s.verify(check.ID, modelstest.Consumable(s.gauze), models.CheckItemPresent, s.now)
	s.Require().NoError(err)
	completed, err := s.service.CompleteCheck(ctx, s.firefighter, check.ID, s.now.Add(20*time.Minute))
	s.Require().NoError(err)
	s.Equal(s.now.Add(20*time.Minute), completed.CompletedAt)

	_, err = s.verify(check.ID, modelstest.Equipment(s.radio), models.CheckItemPresent, s.now)
	s.True(models.IsSessionTerminal(err, string(models.CheckStatusCompleted)))

	// The apparatus is free again.
	_, err = s.service.StartCheck(ctx, s.colleague, s.apparatusID, s.now.Add(time.Hour))
	s.NoError(err)
}

func (s *ServiceSuite) TestResumeCheck() {
	ctx := context.Background()
	abandon := func() *models.AbandonedCheck {
		check := s.startCheck()
		_, err := s.verify(check.ID, modelstest.Equipment(s.radio), models.CheckItemPresent, s.now)
		s.Require().NoError(err)
		abandoned, err := s.service.AbandonCheck(ctx, s.firefighter, check.ID, "called out", s.now.Add(10*time.Minute))
		s.Require().NoError(err)
		return abandoned
	}

	s.Run("inside the window progress is kept", func() {
		abandoned := abandon()
		at := abandoned.AbandonedAt.Add(29*time.Minute + 59*time.Second)
		resumed, err := s.service.ResumeCheck(ctx, s.firefighter, abandoned.ID, at)
		s.Require().NoError(err)
		s.Equal(1, resumed.Progress.VerifiedCount)
		s.Equal(s.now, resumed.StartedAt)
		s.Equal(at, resumed.LastActivityAt)
	})

	s.Run("after the window the check stays abandoned", func() {
		s.SetupTest()
		abandoned := abandon()
		_, err := s.service.ResumeCheck(ctx, s.firefighter, abandoned.ID, abandoned.AbandonedAt.Add(30*time.Minute+time.Second))
		var expired *models.ResumeWindowExpiredError
		s.Require().ErrorAs(err, &expired)
		s.Equal(abandoned.AbandonedAt.Add(models.ResumeWindow), expired.Deadline)
		current, _ := s.checks.FindByID(ctx, abandoned.ID)
		s.Equal(models.CheckStatusAbandoned, current.Status())
	})

	s.Run("only the performer may resume", func() {
		s.SetupTest()
		abandoned := abandon()
		_, err := s.service.ResumeCheck(ctx, s.colleague, abandoned.ID, abandoned.AbandonedAt.Add(time.Minute))
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("a newer active check blocks resume", func() {
		s.SetupTest()
		abandoned := abandon()
		newer, err := s.service.StartCheck(ctx, s.colleague, s.apparatusID, abandoned.AbandonedAt.Add(time.Minute))
		s.Require().NoError(err)
		_, err = s.service.ResumeCheck(ctx, s.firefighter, abandoned.ID, abandoned.AbandonedAt.Add(2*time.Minute))
		var active *models.ActiveSessionExistsError
		s.Require().ErrorAs(err, &active)
		s.Equal(uuid.UUID(newer.ID), active.SessionID)
	})

	s.Run("in-progress checks cannot be resumed", func() {
		s.SetupTest()
		check := s.startCheck()
		_, err := s.service.ResumeCheck(ctx, s.firefighter, check.ID, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})
}

func (s *ServiceSuite) TestAbandonStaleChecks() {
	ctx := context.Background()
	check := s.startCheck()
	lastActivity := s.now.Add(time.Hour)
	_, err := s.verify(check.ID, modelstest.Equipment(s.radio), models.CheckItemPresent, lastActivity)
	s.Require().NoError(err)
	_, err = s.service.StartAudit(ctx, s.technician, s.apparatusID, "", s.now)
	s.Require().NoError(err)

	n, err := s.service.AbandonStaleChecks(ctx, lastActivity.Add(models.StaleCheckAfter-time.Second))
	s.Require().NoError(err)
	s.Zero(n)

	n, err = s.service.AbandonStaleChecks(ctx, lastActivity.Add(models.StaleCheckAfter))
	s.Require().NoError(err)
	s.Equal(1, n)

	current, _ := s.checks.FindByID(ctx, check.ID)
	abandoned, ok := current.(*models.AbandonedCheck)
	s.Require().True(ok)
	s.Equal(models.StaleCheckReason, abandoned.Reason)
	s.Equal(1, abandoned.Progress.VerifiedCount)

	// Audits are flagged, never abandoned.
	activeAudit, err := s.audits.FindActiveByApparatus(ctx, s.apparatusID)
	s.Require().NoError(err)
	s.Equal(models.AuditStatusInProgress, activeAudit.Status())

	events, _ := s.events.ListBySubject(ctx, audit.SubjectInventoryCheck, check.ID.String())
	last := events[len(events)-1]
	s.Equal(string(audit.EventCheckAbandoned), last.Action)
	s.Equal("system", last.ActorRole)
}

func (s *ServiceSuite) TestAuditLifecycle() {
	ctx := context.Background()

	s.Run("firefighters cannot run formal audits", func() {
		_, err := s.service.StartAudit(ctx, s.firefighter, s.apparatusID, "", s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("pause blocks items until resumed", func() {
		s.SetupTest()
		fa, err := s.service.StartAudit(ctx, s.technician, s.apparatusID, "annual", s.now)
		s.Require().NoError(err)
		_, err = s.service.PauseAudit(ctx, s.technician, fa.ID, s.now.Add(time.Hour))
		s.Require().NoError(err)

		req := models.AuditItemRequest{Target: modelstest.Equipment(s.radio), CompartmentID: s.compartment, Status: models.AuditItemVerified}
		_, err = s.service.AuditItem(ctx, s.technician, fa.ID, req, s.now.Add(2*time.Hour))
		s.ErrorIs(err, models.ErrAuditPaused)
		_, err = s.service.CompleteAudit(ctx, s.technician, fa.ID, "", s.now.Add(2*time.Hour))
		s.ErrorIs(err, models.ErrAuditPaused)

		resumed, err := s.service.ResumeAudit(ctx, s.technician, fa.ID, s.now.Add(3*time.Hour))
		s.Require().NoError(err)
		s.False(resumed.IsPaused())
		res, err := s.service.AuditItem(ctx, s.technician, fa.ID, req, s.now.Add(3*time.Hour))
		s.Require().NoError(err)
		s.Equal(1, res.Audit.Progress.AuditedCount)
	})

	s.Run("failed inspection opens a malfunction issue", func() {
		s.SetupTest()
		fa, err := s.service.StartAudit(ctx, s.technician, s.apparatusID, "", s.now)
		s.Require().NoError(err)
		res, err := s.service.AuditItem(ctx, s.technician, fa.ID, models.AuditItemRequest{
			Target:        modelstest.Equipment(s.radio),
			CompartmentID: s.compartment,
			Status:        models.AuditItemFailedInspection,
			TestResult:    models.TestFailed,
		}, s.now)
		s.Require().NoError(err)
		s.Equal(issuemodels.CategoryMalfunction, res.Issue.Category)
		s.Equal(issuemodels.SeverityHigh, res.Issue.Severity)
		s.False(res.Issue.IsCrewResponsibility)
		status, _ := s.equipment.GetStatus(ctx, s.radio)
		s.Equal(equipment.StatusFailedInspection, status)
	})

	s.Run("item carried on another apparatus cannot be audited", func() {
		s.SetupTest()
		otherApparatus := id.ApparatusID(uuid.New())
		s.directory.PlaceApparatus(otherApparatus, id.StationID(uuid.New()))
		foreign := id.EquipmentItemID(uuid.New())
		s.equipment.PutItem(equipment.Item{ID: foreign, ApparatusID: otherApparatus, EquipmentTypeID: id.EquipmentTypeID(uuid.New()), Status: equipment.StatusInService, Ownership: equipment.OwnershipDepartment})
		fa, err := s.service.StartAudit(ctx, s.technician, s.apparatusID, "", s.now)
		s.Require().NoError(err)

		_, err = s.service.AuditItem(ctx, s.technician, fa.ID, models.AuditItemRequest{
			Target:        modelstest.Equipment(foreign),
			CompartmentID: s.compartment,
			Status:        models.AuditItemFailedInspection,
			TestResult:    models.TestFailed,
		}, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		status, _ := s.equipment.GetStatus(ctx, foreign)
		s.Equal(equipment.StatusInService, status)
		current, err := s.audits.FindByID(ctx, fa.ID)
		s.Require().NoError(err)
		s.Equal(0, current.Header().Progress.AuditedCount)
	})

	s.Run("audit against a manifest entry of another type is rejected", func() {
		s.SetupTest()
		fa, err := s.service.StartAudit(ctx, s.technician, s.apparatusID, "", s.now)
		s.Require().NoError(err)
		_, err = s.service.AuditItem(ctx, s.technician, fa.ID, models.AuditItemRequest{
			Target:          modelstest.Consumable(s.gauze),
			CompartmentID:   s.compartment,
			ManifestEntryID: &s.criticalRef,
			Status:          models.AuditItemVerified,
		}, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unexpected items count separately and raise nothing", func() {
		s.SetupTest()
		fa, err := s.service.StartAudit(ctx, s.technician, s.apparatusID, "", s.now)
		s.Require().NoError(err)
		stray := id.EquipmentItemID(uuid.New())
		res, err := s.service.RecordUnexpectedItem(ctx, s.technician, fa.ID, models.UnexpectedItemRequest{
			Target:        modelstest.Equipment(stray),
			CompartmentID: s.compartment,
			Condition:     models.ConditionFair,
		}, s.now)
		s.Require().NoError(err)
		s.Nil(res.Issue)
		s.True(res.Item.IsUnexpected)
		s.Equal(1, res.Audit.Progress.UnexpectedItemsCount)
		s.Equal(0, res.Audit.Progress.AuditedCount)
		s.Equal(3, res.Audit.Progress.TotalItems)
		open, _ := s.issues.ListOpenByStation(ctx, s.stationID)
		s.Empty(open)
	})

	s.Run("complete requires every manifest item", func() {
		s.SetupTest()
		fa, err := s.service.StartAudit(ctx, s.technician, s.apparatusID, "", s.now)
		s.Require().NoError(err)
		_, err = s.service.CompleteAudit(ctx, s.technician, fa.ID, "", s.now)
		var incomplete *models.IncompleteSessionError
		s.Require().ErrorAs(err, &incomplete)
		s.Equal(3, incomplete.Remaining)

		for _, target := range []models.VerificationTarget{modelstest.Equipment(s.halligan), modelstest.Equipment(s.radio), modelstest.Consumable(s.gauze)} {
			_, err := s.service.AuditItem(ctx, s.technician, fa.ID, models.AuditItemRequest{Target: target, CompartmentID: s.compartment, Status: models.AuditItemVerified}, s.now)
			s.Require().NoError(err)
		}
		completed, err := s.service.CompleteAudit(ctx, s.technician, fa.ID, "all good", s.now.Add(3*time.Hour))
		s.Require().NoError(err)
		s.Equal("all good", completed.Notes)
	})

	s.Run("reopen within the window", func() {
		s.SetupTest()
		fa, err := s.service.StartAudit(ctx, s.technician, s.apparatusID, "", s.now)
		s.Require().NoError(err)
		abandoned, err := s.service.AbandonAudit(ctx, s.technician, fa.ID, "pulled to a call", s.now.Add(time.Hour))
		s.Require().NoError(err)

		other := id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleMaintenanceTechnician}
		_, err = s.service.ReopenAudit(ctx, other, fa.ID, abandoned.AbandonedAt.Add(time.Minute))
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

		reopened, err := s.service.ReopenAudit(ctx, s.technician, fa.ID, abandoned.AbandonedAt.Add(29*time.Minute))
		s.Require().NoError(err)
		s.Equal(models.AuditStatusInProgress, reopened.Status())
	})
}

func (s *ServiceSuite) TestListStaleAudits() {
	ctx := context.Background()
	fa, err := s.service.StartAudit(ctx, s.technician, s.apparatusID, "", s.now)
	s.Require().NoError(err)

	stale, err := s.service.ListStaleAudits(ctx, s.firefighter, s.stationID, s.now.Add(models.AuditStaleAfter-time.Minute))
	s.Require().NoError(err)
	s.Empty(stale)

	stale, err = s.service.ListStaleAudits(ctx, s.firefighter, s.stationID, s.now.Add(models.AuditStaleAfter))
	s.Require().NoError(err)
	s.Require().Len(stale, 1)
	s.Equal(fa.ID, stale[0].ID)

	_, err = s.service.ListStaleAudits(ctx, s.outsider, s.stationID, s.now)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	all, err := s.service.FindStaleAudits(ctx, s.now.Add(models.AuditStaleAfter))
	s.Require().NoError(err)
	s.Len(all, 1)
}
