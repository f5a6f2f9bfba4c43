package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func bigSpenders() []models.Rule {
	return []models.Rule{{Field: "totalSpent", Operator: ">", Value: "1000"}}
}

func TestSegmentCreateCountsAudience(t *testing.T) {
	env := newTestEnv(t)
	env.addCustomer(t, "Ada", "", 1500)
	env.addCustomer(t, "Bo", "", 200)
	env.addCustomer(t, "Cy", "", 5000)

	segment, err := env.segments.Create(context.Background(), env.owner, &models.CreateSegmentRequest{
		Name:  "Big spenders",
		Rules: bigSpenders(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), segment.EstimatedCount)
	assert.Equal(t, models.CombinatorAnd, segment.Combinator)
	assert.True(t, segment.IsActive)
	assert.False(t, segment.LastUpdated.IsZero())
}

func TestSegmentCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.segments.Create(ctx, env.owner, &models.CreateSegmentRequest{Name: "empty"})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = env.segments.Create(ctx, env.owner, &models.CreateSegmentRequest{Name: " ", Rules: bigSpenders()})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = env.segments.Create(ctx, env.owner, &models.CreateSegmentRequest{Name: "x", Rules: bigSpenders(), Combinator: "XOR"})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = env.segments.Create(ctx, env.owner, &models.CreateSegmentRequest{
		Name:  "bad range",
		Rules: []models.Rule{{Field: "lastActiveAt", Operator: "between", Value: "2024-01-01"}},
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestSegmentUnknownOperatorMatchesEveryone(t *testing.T) {
	env := newTestEnv(t)
	env.addCustomer(t, "Ada", "", 10)
	env.addCustomer(t, "Bo", "", 20)

	segment, err := env.segments.Create(context.Background(), env.owner, &models.CreateSegmentRequest{
		Name:  "typo",
		Rules: []models.Rule{{Field: "totalSpent", Operator: ">=", Value: "15"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), segment.EstimatedCount)
}

func TestSegmentUpdateRecountsOnEveryUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addCustomer(t, "Ada", "", 1500)
	segment := env.addSegment(t, bigSpenders()...)
	require.Equal(t, int64(1), segment.EstimatedCount)

	env.addCustomer(t, "Bo", "", 2500)

	name := "Renamed"
	updated, err := env.segments.Update(ctx, segment.ID, env.owner, &models.UpdateSegmentRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, int64(2), updated.EstimatedCount)

	or := models.CombinatorOr
	updated, err = env.segments.Update(ctx, segment.ID, env.owner, &models.UpdateSegmentRequest{
		Rules:      []models.Rule{{Field: "totalSpent", Operator: "<", Value: "2000"}, {Field: "totalSpent", Operator: ">", Value: "2400"}},
		Combinator: &or,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.EstimatedCount)

	stored, err := env.segments.Get(ctx, segment.ID, env.owner)
	require.NoError(t, err)
	assert.Equal(t, models.CombinatorOr, stored.Combinator)
	assert.Len(t, stored.Rules, 2)
}

func TestSegmentUpdateRejectsEmptyRules(t *testing.T) {
	env := newTestEnv(t)
	segment := env.addSegment(t, bigSpenders()...)

	_, err := env.segments.Update(context.Background(), segment.ID, env.owner, &models.UpdateSegmentRequest{Rules: []models.Rule{}})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestSegmentOwnerScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	segment := env.addSegment(t, bigSpenders()...)
	stranger := primitive.NewObjectID()

	_, err := env.segments.Get(ctx, segment.ID, stranger)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = env.segments.ResolveCustomers(ctx, segment.ID, stranger)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	err = env.segments.Delete(ctx, segment.ID, stranger)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	require.NoError(t, env.segments.Delete(ctx, segment.ID, env.owner))
	_, err = env.segments.Get(ctx, segment.ID, env.owner)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestResolveCustomersIsLive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addCustomer(t, "Ada", "", 1500)
	segment := env.addSegment(t, bigSpenders()...)

	late := env.addCustomer(t, "Late", "", 9000)
	// another owner's customer never leaks in
	_, err := env.customers.Create(ctx, primitive.NewObjectID(), &models.CreateCustomerRequest{
		Name: "Other", Email: "other@example.com", TotalSpent: 9000,
	})
	require.NoError(t, err)

	got, err := env.segments.ResolveCustomers(ctx, segment.ID, env.owner)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Contains(t, []primitive.ObjectID{got[0].ID, got[1].ID}, late.ID)

	stored, err := env.segments.Get(ctx, segment.ID, env.owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.EstimatedCount)
}

func TestPreview(t *testing.T) {
	env := newTestEnv(t)
	env.addCustomer(t, "Ada", "", 1500)
	env.addCustomer(t, "Bo", "", 20)

	n, err := env.segments.Preview(context.Background(), env.owner, bigSpenders(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = env.segments.Preview(context.Background(), env.owner, nil, models.CombinatorAnd)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = env.segments.Preview(context.Background(), env.owner,
		[]models.Rule{{Field: "totalSpent", Operator: ">", Value: "abc"}}, models.CombinatorAnd)
	require.NoError(t, err)
	assert.Zero(t, n)
}
