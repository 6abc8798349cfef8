// Package query turns catalog list parameters into a filter description
// shared by every store implementation.
package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/0311869uaslp-a11y/Market-pro/internal/domain"
	apperrors "github.com/0311869uaslp-a11y/Market-pro/pkg/errors"
)

// PageSize is the fixed number of products per listing page.
const PageSize = 12

// Op is a comparison operator.
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

// Field is a filterable product attribute.
type Field string

const (
	FieldCategory     Field = "category"
	FieldBrand        Field = "brand"
	FieldPrice        Field = "price"
	FieldCuttedPrice  Field = "cuttedPrice"
	FieldRatings      Field = "ratings"
	FieldStock        Field = "stock"
	FieldNumOfReviews Field = "numOfReviews"
)

var numericFields = map[Field]bool{
	FieldCategory:     false,
	FieldBrand:        false,
	FieldPrice:        true,
	FieldCuttedPrice:  true,
	FieldRatings:      true,
	FieldStock:        true,
	FieldNumOfReviews: true,
}

// reserved parameters never become filter conditions.
var reserved = map[string]bool{"keyword": true, "page": true, "limit": true}

// Numeric reports whether f compares as a number.
func (f Field) Numeric() bool {
	return numericFields[f]
}

// Condition restricts one field. Text is set for text fields and Number
// for numeric ones.
type Condition struct {
	Field  Field
	Op     Op
	Text   string
	Number float64
}

// Query describes a catalog listing. A zero Limit means unbounded.
type Query struct {
	Keyword    string
	Conditions []Condition
	Skip       int
	Limit      int
}

// Parse builds an unpaginated query and the requested page from list
// parameters. Range bounds use bracket syntax, e.g. price[gte]=10.
// Unknown parameters are dropped.
func Parse(values url.Values) (Query, int, error) {
	q := Query{Keyword: strings.TrimSpace(values.Get("keyword"))}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if reserved[key] {
			continue
		}
		field, op, ok := splitKey(key)
		if !ok {
			continue
		}
		if _, known := numericFields[field]; !known {
			continue
		}
		cond, err := newCondition(field, op, values.Get(key))
		if err != nil {
			return Query{}, 0, err
		}
		q.Conditions = append(q.Conditions, cond)
	}
	return q, parsePage(values.Get("page")), nil
}

// splitKey parses "price[gte]" into (price, gte) and "category" into
// (category, eq).
func splitKey(key string) (Field, Op, bool) {
	name, rest, hasOp := strings.Cut(key, "[")
	if !hasOp {
		return Field(name), OpEq, true
	}
	opName, ok := strings.CutSuffix(rest, "]")
	if !ok {
		return "", "", false
	}
	return Field(name), Op(opName), true
}

func newCondition(field Field, op Op, raw string) (Condition, error) {
	switch op {
	case OpEq, OpGt, OpGte, OpLt, OpLte:
	default:
		return Condition{}, apperrors.InvalidInput(fmt.Sprintf("Unsupported filter operator %q on %s", op, field))
	}
	if !field.Numeric() {
		if op != OpEq {
			return Condition{}, apperrors.InvalidInput(fmt.Sprintf("Filter on %s only supports equality", field))
		}
		return Condition{Field: field, Op: op, Text: raw}, nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Condition{}, apperrors.InvalidInput(fmt.Sprintf("Invalid value for %s: %q", field, raw))
	}
	return Condition{Field: field, Op: op, Number: n}, nil
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Clone returns a copy that shares nothing with q.
func (q Query) Clone() Query {
	cp := q
	cp.Conditions = append([]Condition(nil), q.Conditions...)
	return cp
}

// Paginate narrows q in place to the given 1-based page.
func (q *Query) Paginate(page, size int) {
	if page < 1 {
		page = 1
	}
	q.Skip = (page - 1) * size
	q.Limit = size
}

// Matches evaluates the filter against p, ignoring Skip and Limit.
func (q Query) Matches(p *domain.Product) bool {
	if q.Keyword != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Keyword)) {
		return false
	}
	for _, c := range q.Conditions {
		if !c.matches(p) {
			return false
		}
	}
	return true
}

func (c Condition) matches(p *domain.Product) bool {
	switch c.Field {
	case FieldCategory:
		return p.Category == c.Text
	case FieldBrand:
		return p.Brand.Name == c.Text
	}

	var v float64
	switch c.Field {
	case FieldPrice:
		v = p.Price
	case FieldCuttedPrice:
		v = p.CuttedPrice
	case FieldRatings:
		v = p.Ratings
	case FieldStock:
		v = float64(p.Stock)
	case FieldNumOfReviews:
		v = float64(p.NumOfReviews)
	default:
		return false
	}
	switch c.Op {
	case OpGt:
		return v > c.Number
	case OpGte:
		return v >= c.Number
	case OpLt:
		return v < c.Number
	case OpLte:
		return v <= c.Number
	default:
		return v == c.Number
	}
}
