package catalog

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/bag_shop/internal/pagination"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
	DefaultSort     = "-createdAt"
)

// SortKeys maps the public sort keys to columns.
var SortKeys = map[string]string{
	"price":     "price",
	"name":      "name",
	"createdAt": "created_at",
}

// Filter is the listing request after validation. Nil price bounds and
// empty strings mean "not filtered".
type Filter struct {
	Category   string
	SearchText string
	MinPrice   *float64
	MaxPrice   *float64
	SortKey    string
	Page       int
	PageSize   int
}

type Query struct {
	Where  []clause.Expression
	Order  clause.OrderByColumn
	Offset int
	Limit  int
}

// Build never rejects a filter. Contradictory bounds (min > max) are kept
// and simply match nothing.
func Build(f Filter) Query {
	var q Query

	if f.Category != "" {
		q.Where = append(q.Where, clause.Eq{Column: clause.Column{Name: "category"}, Value: f.Category})
	}

	if text := strings.TrimSpace(f.SearchText); text != "" {
		// both sides are folded by the database so its collation decides case
		pattern := "%" + escapeLike(text) + "%"
		q.Where = append(q.Where, clause.Expr{
			SQL:  `(LOWER(name) LIKE LOWER(?) ESCAPE '\' OR LOWER(description) LIKE LOWER(?) ESCAPE '\')`,
			Vars: []any{pattern, pattern},
		})
	}

	if f.MinPrice != nil {
		q.Where = append(q.Where, clause.Gte{Column: clause.Column{Name: "price"}, Value: *f.MinPrice})
	}
	if f.MaxPrice != nil {
		q.Where = append(q.Where, clause.Lte{Column: clause.Column{Name: "price"}, Value: *f.MaxPrice})
	}

	column, desc := ParseSort(f.SortKey)
	q.Order = clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}

	q.Offset = pagination.Offset(f.Page, f.PageSize)
	q.Limit = f.PageSize
	return q
}

// ParseSort strips a leading "-" (descending) and resolves the column.
// Unknown keys fall back to newest first.
func ParseSort(key string) (column string, desc bool) {
	field, desc := strings.CutPrefix(key, "-")
	column, ok := SortKeys[field]
	if !ok {
		return SortKeys["createdAt"], true
	}
	return column, desc
}

// Filter applies the predicate only, for counting.
func (q Query) Filter(db *gorm.DB) *gorm.DB {
	for _, expr := range q.Where {
		db = db.Where(expr)
	}
	return db
}

// Page applies predicate, ordering and the page window.
func (q Query) Page(db *gorm.DB) *gorm.DB {
	return q.Filter(db).Order(q.Order).Offset(q.Offset).Limit(q.Limit)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
