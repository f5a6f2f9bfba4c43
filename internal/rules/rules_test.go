package rules

import (
	"errors"
	"testing"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func customerDoc(t *testing.T, spent float64, visits int, lastActive time.Time) bson.M {
	t.Helper()
	doc, err := ToDocument(&models.Customer{
		ID:           primitive.NewObjectID(),
		Name:         "Ada Lovelace",
		Email:        "ada@example.com",
		TotalSpent:   spent,
		Visits:       visits,
		LastActiveAt: lastActive,
		Status:       models.CustomerStatusActive,
	})
	require.NoError(t, err)
	return doc
}

func mustCompile(t *testing.T, rs []models.Rule, combinator models.Combinator) *Predicate {
	t.Helper()
	p, err := Compile(rs, combinator)
	require.NoError(t, err)
	return p
}

func spendRules() []models.Rule {
	return []models.Rule{
		{Field: "totalSpent", Operator: ">", Value: "100"},
		{Field: "totalSpent", Operator: "<", Value: "500"},
	}
}

func TestCompileAndRequiresEveryRule(t *testing.T) {
	p, err := Compile(spendRules(), models.CombinatorAnd)
	require.NoError(t, err)

	now := time.Now()
	cases := map[float64]bool{50: false, 100: false, 101: true, 499.99: true, 500: false, 900: false}
	for spent, want := range cases {
		assert.Equal(t, want, p.Matches(customerDoc(t, spent, 1, now)), "spent=%v", spent)
	}
}

func TestCompileOrRequiresAnyRule(t *testing.T) {
	p, err := Compile(spendRules(), models.CombinatorOr)
	require.NoError(t, err)

	now := time.Now()
	for _, spent := range []float64{0, 100, 250, 500, 10000} {
		assert.True(t, p.Matches(customerDoc(t, spent, 1, now)), "spent=%v", spent)
	}

	only := []models.Rule{
		{Field: "totalSpent", Operator: ">", Value: "1000"},
		{Field: "visits", Operator: "=", Value: "3"},
	}
	p, err = Compile(only, models.CombinatorOr)
	require.NoError(t, err)
	assert.True(t, p.Matches(customerDoc(t, 10, 3, now)))
	assert.True(t, p.Matches(customerDoc(t, 2000, 0, now)))
	assert.False(t, p.Matches(customerDoc(t, 10, 2, now)))
}

func TestCompileEmptyRulesMatchesEverything(t *testing.T) {
	p, err := Compile(nil, models.CombinatorAnd)
	require.NoError(t, err)

	assert.Empty(t, p.conditions)
	assert.Equal(t, bson.M{}, p.Filter())
	assert.True(t, p.Matches(customerDoc(t, 0, 0, time.Time{})))
	assert.True(t, p.Matches(bson.M{}))
}

func TestCompileNumericParseFailureMatchesNothing(t *testing.T) {
	rs := []models.Rule{{Field: "totalSpent", Operator: ">", Value: "lots"}}
	p, err := Compile(rs, models.CombinatorAnd)
	require.NoError(t, err)

	assert.False(t, p.Matches(customerDoc(t, 1e9, 1, time.Now())))
	assert.Len(t, p.Warnings(), 1)
	assert.Equal(t, bson.M{"$and": bson.A{bson.M{"totalSpent": bson.M{"$in": bson.A{}}}}}, p.Filter())

	// Under OR the other rule still selects customers
	rs = append(rs, models.Rule{Field: "visits", Operator: ">", Value: "2"})
	p, err = Compile(rs, models.CombinatorOr)
	require.NoError(t, err)
	assert.True(t, p.Matches(customerDoc(t, 0, 5, time.Now())))
	assert.False(t, p.Matches(customerDoc(t, 0, 1, time.Now())))
}

func TestCompileUnknownOperatorIsNoOpWithWarning(t *testing.T) {
	rs := []models.Rule{
		{Field: "totalSpent", Operator: "contains", Value: "9"},
		{Field: "visits", Operator: ">", Value: "2"},
	}
	p, err := Compile(rs, models.CombinatorAnd)
	require.NoError(t, err)

	require.Len(t, p.Warnings(), 1)
	assert.Contains(t, p.Warnings()[0], "contains")
	assert.True(t, p.Matches(customerDoc(t, 0, 3, time.Now())))
	assert.False(t, p.Matches(customerDoc(t, 0, 1, time.Now())))

	clauses := p.Filter()["$and"].(bson.A)
	assert.Equal(t, bson.M{}, clauses[0])
}

func TestCompileDates(t *testing.T) {
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	before := mustCompile(t, []models.Rule{{Field: "lastActiveAt", Operator: "before", Value: "2024-02-01"}}, models.CombinatorAnd)
	after := mustCompile(t, []models.Rule{{Field: "lastActiveAt", Operator: "after", Value: "2024-02-01"}}, models.CombinatorAnd)

	assert.True(t, before.Matches(customerDoc(t, 0, 0, jan)))
	assert.False(t, before.Matches(customerDoc(t, 0, 0, mar)))
	assert.False(t, after.Matches(customerDoc(t, 0, 0, jan)))
	assert.True(t, after.Matches(customerDoc(t, 0, 0, mar)))

	bad := mustCompile(t, []models.Rule{{Field: "lastActiveAt", Operator: "after", Value: "someday"}}, models.CombinatorAnd)
	assert.False(t, bad.Matches(customerDoc(t, 0, 0, mar)))
	assert.NotEmpty(t, bad.Warnings())
}

func TestCompileBetweenIsInclusive(t *testing.T) {
	p, err := Compile([]models.Rule{{Field: "lastActiveAt", Operator: "between", Value: "2024-01-01, 2024-01-31"}}, models.CombinatorAnd)
	require.NoError(t, err)

	assert.True(t, p.Matches(customerDoc(t, 0, 0, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))))
	assert.True(t, p.Matches(customerDoc(t, 0, 0, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))))
	assert.True(t, p.Matches(customerDoc(t, 0, 0, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))))
	assert.False(t, p.Matches(customerDoc(t, 0, 0, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))))

	filter := p.Filter()["$and"].(bson.A)[0].(bson.M)
	rng := filter["lastActiveAt"].(bson.M)
	assert.Contains(t, rng, "$gte")
	assert.Contains(t, rng, "$lte")
}

func TestCompileMalformedBetweenFails(t *testing.T) {
	for _, v := range []string{"2024-01-01", "2024-01-01,2024-02-01,2024-03-01", "2024-01-01,nope", ""} {
		_, err := Compile([]models.Rule{{Field: "lastActiveAt", Operator: "between", Value: v}}, models.CombinatorAnd)
		require.Error(t, err, "value=%q", v)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	}
}

func TestCompileRejectsOperatorFields(t *testing.T) {
	for _, field := range []string{"$where", " $expr", "$or"} {
		_, err := Compile([]models.Rule{{Field: field, Operator: ">", Value: "1"}}, models.CombinatorAnd)
		require.Error(t, err, "field=%q", field)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	}
}

func TestCompileRejectsBadCombinator(t *testing.T) {
	_, err := Compile(spendRules(), "XOR")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	p, err := Compile(spendRules(), "")
	require.NoError(t, err)
	assert.Contains(t, p.Filter(), "$and")
}

func TestCompileNormalizesLegacyFields(t *testing.T) {
	p := mustCompile(t, []models.Rule{
		{Field: "total_spend", Operator: ">", Value: "10"},
		{Field: "visitCount", Operator: ">", Value: "1"},
	}, models.CombinatorAnd)

	clauses := p.Filter()["$and"].(bson.A)
	assert.Contains(t, clauses[0], "totalSpent")
	assert.Contains(t, clauses[1], "visits")
	assert.True(t, p.Matches(customerDoc(t, 20, 2, time.Now())))
}

func TestMissingFieldNeverMatches(t *testing.T) {
	p := mustCompile(t, []models.Rule{{Field: "loyaltyScore", Operator: "<", Value: "5"}}, models.CombinatorAnd)
	assert.False(t, p.Matches(customerDoc(t, 0, 0, time.Now())))

	// numbers do not compare with dates
	p = mustCompile(t, []models.Rule{{Field: "lastActiveAt", Operator: ">", Value: "0"}}, models.CombinatorAnd)
	assert.False(t, p.Matches(customerDoc(t, 0, 0, time.Now())))
}

func TestScopedToAddsOwnerClause(t *testing.T) {
	owner := primitive.NewObjectID()

	scoped := mustCompile(t, spendRules(), models.CombinatorOr).ScopedTo(owner)
	assert.Equal(t, owner, scoped["user"])
	assert.Contains(t, scoped, "$or")

	assert.Equal(t, bson.M{"user": owner}, mustCompile(t, nil, models.CombinatorAnd).ScopedTo(owner))
}
