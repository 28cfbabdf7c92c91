package service

import (
	"context"
	"testing"
	"time"

	"github.com/ComePicard/Cooloc/internal/model"
	"github.com/ComePicard/Cooloc/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSpendingFixture(t *testing.T) (*gorm.DB, *SpendingService, *model.User, *model.User, *model.User, *model.Group) {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig()

	owner := seedUser(t, db, "Owner", "owner@example.com")
	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	group := seedGroup(t, db, cfg, owner, alice, bob)

	return db, NewSpendingService(db, cfg), owner, alice, bob, group
}

func TestCreateSpendingSplitsAcrossMembers(t *testing.T) {
	db, svc, owner, alice, bob, group := newSpendingFixture(t)
	ctx := context.Background()

	spending, err := svc.Create(ctx, &CreateSpendingRequest{
		Name:     "groceries",
		Amount:   90.00,
		Currency: "EUR",
		GroupID:  group.ID,
	}, owner.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, spending.ID)
	assert.False(t, spending.IsReimbursed)

	var reimbursements []*model.Reimbursement
	require.NoError(t, db.Where("spending_id = ?", spending.ID).Find(&reimbursements).Error)
	require.Len(t, reimbursements, 2)

	byUser := map[string]float64{}
	for _, r := range reimbursements {
		assert.Nil(t, r.PaidAt)
		byUser[r.UserID] = r.Amount
	}
	assert.Equal(t, 45.00, byUser[alice.ID])
	assert.Equal(t, 45.00, byUser[bob.ID])
	_, ownerOwes := byUser[owner.ID]
	assert.False(t, ownerOwes, "owner must not owe their own spending")

	events := outboxEvents(t, db)
	require.Len(t, events, 1)
	assert.Contains(t, events[0], model.EventSpendingCreated)
}

func TestCreateSpendingUnevenSplit(t *testing.T) {
	db, svc, owner, _, _, group := newSpendingFixture(t)
	ctx := context.Background()

	spending, err := svc.Create(ctx, &CreateSpendingRequest{
		Name:     "dinner",
		Amount:   100.00,
		Currency: "EUR",
		GroupID:  group.ID,
	}, owner.ID)
	require.NoError(t, err)

	var reimbursements []*model.Reimbursement
	require.NoError(t, db.Where("spending_id = ?", spending.ID).Order("id ASC").Find(&reimbursements).Error)
	require.Len(t, reimbursements, 2)

	var total float64
	for _, r := range reimbursements {
		total += r.Amount
	}
	assert.InDelta(t, 100.00, total, 1e-9, "shares must sum back to the amount")
	assert.ElementsMatch(t, []float64{50.00, 50.00}, []float64{reimbursements[0].Amount, reimbursements[1].Amount})
}

func TestCreateSpendingOwnerNotMember(t *testing.T) {
	db, svc, _, _, _, group := newSpendingFixture(t)
	outsider := seedUser(t, db, "Eve", "eve@example.com")

	_, err := svc.Create(context.Background(), &CreateSpendingRequest{
		Name:     "groceries",
		Amount:   10,
		Currency: "EUR",
		GroupID:  group.ID,
	}, outsider.ID)
	assert.ErrorIs(t, err, ErrOwnerNotMember)
}

func TestCreateSpendingSoloGroupStaysUnreimbursed(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	owner := seedUser(t, db, "Solo", "solo@example.com")
	group := seedGroup(t, db, cfg, owner)
	svc := NewSpendingService(db, cfg)

	spending, err := svc.Create(context.Background(), &CreateSpendingRequest{
		Name:     "rent",
		Amount:   800,
		Currency: "EUR",
		GroupID:  group.ID,
	}, owner.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Reimbursement{}).Where("spending_id = ?", spending.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.False(t, spending.IsReimbursed, "nobody owing is not the same as settled")
}

func TestCreateSpendingValidation(t *testing.T) {
	_, svc, owner, _, _, group := newSpendingFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateSpendingRequest{
		Name: "bad", Amount: -1, Currency: "EUR", GroupID: group.ID,
	}, owner.ID)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Create(ctx, &CreateSpendingRequest{
		Name: "", Amount: 1, Currency: "EUR", GroupID: group.ID,
	}, owner.ID)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = svc.Create(ctx, &CreateSpendingRequest{
		Name: "orphan", Amount: 1, Currency: "EUR", GroupID: "no-such-group",
	}, owner.ID)
	assert.ErrorIs(t, err, repository.ErrGroupNotFound)
}

func TestUpdateSpendingResplitsOnAmountChange(t *testing.T) {
	db, svc, owner, _, _, group := newSpendingFixture(t)
	ctx := context.Background()

	spending, err := svc.Create(ctx, &CreateSpendingRequest{
		Name: "groceries", Amount: 90, Currency: "EUR", GroupID: group.ID,
	}, owner.ID)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, spending.ID, &UpdateSpendingRequest{
		Name: "groceries", Amount: 60, Currency: "EUR", GroupID: group.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 60.00, updated.Amount)
	assert.False(t, updated.IsReimbursed)

	var reimbursements []*model.Reimbursement
	require.NoError(t, db.Where("spending_id = ?", spending.ID).Find(&reimbursements).Error)
	require.Len(t, reimbursements, 2)
	for _, r := range reimbursements {
		assert.Equal(t, 30.00, r.Amount)
		assert.Nil(t, r.PaidAt)
	}
}

func TestUpdateSpendingLockedAfterPayment(t *testing.T) {
	db, svc, owner, alice, _, group := newSpendingFixture(t)
	cfg := testConfig()
	ctx := context.Background()

	spending, err := svc.Create(ctx, &CreateSpendingRequest{
		Name: "groceries", Amount: 90, Currency: "EUR", GroupID: group.ID,
	}, owner.ID)
	require.NoError(t, err)

	reimbursementSvc := NewReimbursementService(db, nil, cfg)
	_, err = reimbursementSvc.MarkPaid(ctx, spending.ID, alice.ID, time.Now())
	require.NoError(t, err)

	_, err = svc.Update(ctx, spending.ID, &UpdateSpendingRequest{
		Name: "groceries", Amount: 120, Currency: "EUR", GroupID: group.ID,
	})
	assert.ErrorIs(t, err, ErrSpendingLocked)

	// Renaming without touching amount or group stays allowed.
	updated, err := svc.Update(ctx, spending.ID, &UpdateSpendingRequest{
		Name: "weekly groceries", Amount: 90, Currency: "EUR", GroupID: group.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "weekly groceries", updated.Name)
}

func TestRemoveSpendingDropsObligations(t *testing.T) {
	db, svc, owner, _, _, group := newSpendingFixture(t)
	ctx := context.Background()

	spending, err := svc.Create(ctx, &CreateSpendingRequest{
		Name: "groceries", Amount: 90, Currency: "EUR", GroupID: group.ID,
	}, owner.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, spending.ID))

	_, err = svc.Get(ctx, spending.ID)
	assert.ErrorIs(t, err, repository.ErrSpendingNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Reimbursement{}).Where("spending_id = ?", spending.ID).Count(&count).Error)
	assert.Zero(t, count)
}
