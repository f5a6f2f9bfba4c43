// Package rules compiles segment rules into customer predicates.
//
// A Predicate can be rendered as a MongoDB filter or evaluated directly
// against a decoded document; both forms agree on which customers match.
package rules

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fieldAliases maps legacy rule field spellings to the customer attribute they mean
var fieldAliases = map[string]string{
	"total_spend":      "totalSpent",
	"totalSpend":       "totalSpent",
	"visitCount":       "visits",
	"visit_count":      "visits",
	"last_active_date": "lastActiveAt",
	"lastVisit":        "lastActiveAt",
	"lastActive":       "lastActiveAt",
}

type kind int

const (
	matchAll kind = iota
	matchNone
	numGreater
	numLess
	numEqual
	timeBefore
	timeAfter
	timeBetween
)

type condition struct {
	field string
	kind  kind
	num   float64
	from  time.Time
	to    time.Time
}

// Predicate is a compiled, owner-agnostic rule set
type Predicate struct {
	combinator models.Combinator
	conditions []condition
	warnings   []string
}

// Compile turns rules joined by combinator into a Predicate.
//
// Zero rules match every customer. A numeric or date value that fails to
// parse turns its rule into one that matches nothing. An unknown operator
// turns its rule into one that matches everything and is reported through
// Warnings. A malformed between range or a field naming a query operator is
// a validation error.
func Compile(rs []models.Rule, combinator models.Combinator) (*Predicate, error) {
	if combinator == "" {
		combinator = models.CombinatorAnd
	}
	if !combinator.Valid() {
		return nil, apperrors.Validation("combinator must be AND or OR")
	}

	p := &Predicate{combinator: combinator}
	for i, r := range rs {
		field := NormalizeField(r.Field)
		if field == "" {
			return nil, apperrors.Validation("rule %d: field is required", i+1)
		}
		if strings.HasPrefix(field, "$") {
			return nil, apperrors.Validation("rule %d: field %q is not a customer attribute", i+1, field)
		}

		cond := condition{field: field}
		op := strings.ToLower(strings.TrimSpace(r.Operator))
		switch op {
		case models.OperatorGreaterThan, models.OperatorLessThan, models.OperatorEquals:
			n, ok := parseNumber(r.Value)
			if !ok {
				cond.kind = matchNone
				p.warn("rule %d: %q is not a number, %s matches no customers", i+1, r.Value, field)
				break
			}
			cond.num = n
			switch op {
			case models.OperatorGreaterThan:
				cond.kind = numGreater
			case models.OperatorLessThan:
				cond.kind = numLess
			default:
				cond.kind = numEqual
			}

		case models.OperatorBefore, models.OperatorAfter:
			t, err := parseTime(r.Value)
			if err != nil {
				cond.kind = matchNone
				p.warn("rule %d: %q is not a date, %s matches no customers", i+1, r.Value, field)
				break
			}
			cond.from = t
			if op == models.OperatorBefore {
				cond.kind = timeBefore
			} else {
				cond.kind = timeAfter
			}

		case models.OperatorBetween:
			parts := strings.Split(r.Value, ",")
			if len(parts) != 2 {
				return nil, apperrors.Validation("rule %d: between expects two comma-separated dates", i+1)
			}
			from, err := parseTime(parts[0])
			if err != nil {
				return nil, apperrors.Validation("rule %d: invalid start date %q", i+1, strings.TrimSpace(parts[0]))
			}
			to, err := parseTime(parts[1])
			if err != nil {
				return nil, apperrors.Validation("rule %d: invalid end date %q", i+1, strings.TrimSpace(parts[1]))
			}
			cond.kind = timeBetween
			cond.from, cond.to = from, to

		default:
			cond.kind = matchAll
			p.warn("rule %d: unknown operator %q on %s is ignored", i+1, r.Operator, field)
		}

		p.conditions = append(p.conditions, cond)
	}

	return p, nil
}

// NormalizeField resolves legacy attribute spellings to the canonical name
func NormalizeField(field string) string {
	field = strings.TrimSpace(field)
	if canonical, ok := fieldAliases[field]; ok {
		return canonical
	}
	return field
}

// Warnings lists rules that compiled to something other than what they say
func (p *Predicate) Warnings() []string {
	return p.warnings
}

// Filter renders the predicate as a MongoDB query filter
func (p *Predicate) Filter() bson.M {
	if len(p.conditions) == 0 {
		return bson.M{}
	}

	clauses := make(bson.A, 0, len(p.conditions))
	for _, c := range p.conditions {
		clauses = append(clauses, c.filter())
	}

	if p.combinator == models.CombinatorOr {
		return bson.M{"$or": clauses}
	}
	return bson.M{"$and": clauses}
}

// ScopedTo composes the predicate with an owner clause
func (p *Predicate) ScopedTo(ownerID primitive.ObjectID) bson.M {
	filter := p.Filter()
	filter["user"] = ownerID
	return filter
}

// Matches evaluates the predicate against a decoded document. A missing field
// never satisfies a comparison, and numbers only compare with numbers and
// dates with dates, as in a MongoDB query.
func (p *Predicate) Matches(doc bson.M) bool {
	if len(p.conditions) == 0 {
		return true
	}

	if p.combinator == models.CombinatorOr {
		for _, c := range p.conditions {
			if c.matches(doc) {
				return true
			}
		}
		return false
	}

	for _, c := range p.conditions {
		if !c.matches(doc) {
			return false
		}
	}
	return true
}

func (p *Predicate) warn(format string, args ...interface{}) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (c condition) filter() bson.M {
	switch c.kind {
	case matchNone:
		return bson.M{c.field: bson.M{"$in": bson.A{}}}
	case numGreater:
		return bson.M{c.field: bson.M{"$gt": c.num}}
	case numLess:
		return bson.M{c.field: bson.M{"$lt": c.num}}
	case numEqual:
		return bson.M{c.field: c.num}
	case timeBefore:
		return bson.M{c.field: bson.M{"$lt": c.from}}
	case timeAfter:
		return bson.M{c.field: bson.M{"$gt": c.from}}
	case timeBetween:
		return bson.M{c.field: bson.M{"$gte": c.from, "$lte": c.to}}
	default:
		return bson.M{}
	}
}

func (c condition) matches(doc bson.M) bool {
	switch c.kind {
	case matchAll:
		return true
	case matchNone:
		return false
	}

	v, ok := doc[c.field]
	if !ok || v == nil {
		return false
	}

	switch c.kind {
	case numGreater, numLess, numEqual:
		n, ok := asNumber(v)
		if !ok {
			return false
		}
		switch c.kind {
		case numGreater:
			return n > c.num
		case numLess:
			return n < c.num
		default:
			return n == c.num
		}
	default:
		t, ok := asTime(v)
		if !ok {
			return false
		}
		switch c.kind {
		case timeBefore:
			return t.Before(c.from)
		case timeAfter:
			return t.After(c.from)
		default:
			return !t.Before(c.from) && !t.After(c.to)
		}
	}
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := cast.ToTimeE(s)
	if err != nil {
		return time.Time{}, err
	}
	// BSON dates carry millisecond precision
	return t.UTC().Truncate(time.Millisecond), nil
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case primitive.Decimal128:
		f, err := cast.ToFloat64E(n.String())
		return f, err == nil
	}
	return 0, false
}

func asTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC(), true
	case time.Time:
		return t.UTC(), true
	}
	return time.Time{}, false
}
