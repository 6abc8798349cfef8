package postgres

import (
	"fmt"
	"strings"

	"github.com/0311869uaslp-a11y/Market-pro/internal/query"
)

var columns = map[query.Field]string{
	query.FieldCategory:     "category",
	query.FieldBrand:        "brand->>'name'",
	query.FieldPrice:        "price",
	query.FieldCuttedPrice:  "cutted_price",
	query.FieldRatings:      "ratings",
	query.FieldStock:        "stock",
	query.FieldNumOfReviews: "num_of_reviews",
}

var operators = map[query.Op]string{
	query.OpEq:  "=",
	query.OpGt:  ">",
	query.OpGte: ">=",
	query.OpLt:  "<",
	query.OpLte: "<=",
}

// where renders the filter part of q as a WHERE clause with positional
// arguments, or "" when q has no filter.
func where(q query.Query) (string, []any, error) {
	var (
		conds []string
		args  []any
	)
	if q.Keyword != "" {
		args = append(args, "%"+escapeLike(q.Keyword)+"%")
		conds = append(conds, fmt.Sprintf(`name ILIKE $%d ESCAPE '\'`, len(args)))
	}
	for _, c := range q.Conditions {
		col, ok := columns[c.Field]
		if !ok {
			return "", nil, fmt.Errorf("unsupported filter field %q", c.Field)
		}
		op, ok := operators[c.Op]
		if !ok {
			return "", nil, fmt.Errorf("unsupported filter operator %q", c.Op)
		}
		if c.Field.Numeric() {
			args = append(args, c.Number)
			conds = append(conds, fmt.Sprintf("%s %s $%d::double precision", col, op, len(args)))
			continue
		}
		args = append(args, c.Text)
		conds = append(conds, fmt.Sprintf("%s %s $%d", col, op, len(args)))
	}
	if len(conds) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
