package catalog

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/bag_shop/internal/models"
	"github.com/Skotchmaster/bag_shop/internal/testutil"
)

func ptr(f float64) *float64 { return &f }

func TestBuild_EmptyFilterMatchesAll(t *testing.T) {
	t.Parallel()

	q := Build(Filter{Page: 1, PageSize: 12})

	assert.Empty(t, q.Where)
	assert.Equal(t, clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}, q.Order)
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, 12, q.Limit)
}

func TestBuild_Clauses(t *testing.T) {
	t.Parallel()

	q := Build(Filter{
		Category:   "tote",
		SearchText: "  Leather ",
		MinPrice:   ptr(100),
		MaxPrice:   ptr(50),
		SortKey:    "price",
		Page:       3,
		PageSize:   20,
	})

	require.Len(t, q.Where, 4)
	assert.Equal(t, clause.Eq{Column: clause.Column{Name: "category"}, Value: "tote"}, q.Where[0])

	search, ok := q.Where[1].(clause.Expr)
	require.True(t, ok)
	assert.Equal(t, []any{"%Leather%", "%Leather%"}, search.Vars)
	assert.Contains(t, search.SQL, "LIKE LOWER(?)")

	assert.Equal(t, clause.Gte{Column: clause.Column{Name: "price"}, Value: 100.0}, q.Where[2])
	assert.Equal(t, clause.Lte{Column: clause.Column{Name: "price"}, Value: 50.0}, q.Where[3])

	assert.Equal(t, clause.OrderByColumn{Column: clause.Column{Name: "price"}}, q.Order)
	assert.Equal(t, 40, q.Offset)
	assert.Equal(t, 20, q.Limit)
}

func TestBuild_SearchEscapesLikeMetacharacters(t *testing.T) {
	t.Parallel()

	q := Build(Filter{SearchText: `50%_off\`, Page: 1, PageSize: 12})

	require.Len(t, q.Where, 1)
	expr := q.Where[0].(clause.Expr)
	assert.Equal(t, `%50\%\_off\\%`, expr.Vars[0])
}

func TestParseSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key      string
		wantCol  string
		wantDesc bool
	}{
		{key: "price", wantCol: "price"},
		{key: "-price", wantCol: "price", wantDesc: true},
		{key: "name", wantCol: "name"},
		{key: "-name", wantCol: "name", wantDesc: true},
		{key: "createdAt", wantCol: "created_at"},
		{key: "-createdAt", wantCol: "created_at", wantDesc: true},
		{key: "", wantCol: "created_at", wantDesc: true},
		{key: "-stock", wantCol: "created_at", wantDesc: true},
	}

	for _, tt := range tests {
		col, desc := ParseSort(tt.key)
		assert.Equal(t, tt.wantCol, col, tt.key)
		assert.Equal(t, tt.wantDesc, desc, tt.key)
	}
}

func seedBags(t *testing.T, db *gorm.DB) {
	t.Helper()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bags := []models.Bag{
		{Name: "Classic Tote", Description: "Hand-stitched LEATHER tote", Price: 120, Category: "tote", Image: "https://img.test/1.jpg", Stock: 3},
		{Name: "Canvas Tote", Description: "Light canvas shopper", Price: 40, Category: "tote", Image: "https://img.test/2.jpg", Stock: 9},
		{Name: "Leather Messenger", Description: "Waxed finish", Price: 230, Category: "messenger", Image: "https://img.test/3.jpg", Stock: 1},
		{Name: "Trail Backpack", Description: "Nylon, 30L", Price: 90, Category: "backpack", Image: "https://img.test/4.jpg", Stock: 0},
		{Name: "Night Clutch", Description: "Satin 100%_silk lining", Price: 75, Category: "clutch", Image: "https://img.test/5.jpg", Stock: 4},
	}
	for i := range bags {
		bags[i].CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, db.Create(&bags[i]).Error)
	}
}

func find(t *testing.T, db *gorm.DB, f Filter) (int64, []string) {
	t.Helper()

	if f.Page == 0 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
	q := Build(f)

	var total int64
	require.NoError(t, q.Filter(db.Model(&models.Bag{})).Count(&total).Error)

	var bags []models.Bag
	require.NoError(t, q.Page(db.Model(&models.Bag{})).Find(&bags).Error)

	names := make([]string, 0, len(bags))
	for _, b := range bags {
		names = append(names, b.Name)
	}
	return total, names
}

func TestQuery_AgainstStore(t *testing.T) {
	db := testutil.NewDB(t)
	seedBags(t, db)

	tests := []struct {
		name      string
		filter    Filter
		wantTotal int64
		wantNames []string
	}{
		{
			name:      "no filters newest first",
			filter:    Filter{},
			wantTotal: 5,
			wantNames: []string{"Night Clutch", "Trail Backpack", "Leather Messenger", "Canvas Tote", "Classic Tote"},
		},
		{
			name:      "category",
			filter:    Filter{Category: "tote", SortKey: "price"},
			wantTotal: 2,
			wantNames: []string{"Canvas Tote", "Classic Tote"},
		},
		{
			name:      "search is case-insensitive over name and description",
			filter:    Filter{SearchText: "leather", SortKey: "name"},
			wantTotal: 2,
			wantNames: []string{"Classic Tote", "Leather Messenger"},
		},
		{
			name:      "search folds the query case",
			filter:    Filter{SearchText: "LEATHER", SortKey: "name"},
			wantTotal: 2,
			wantNames: []string{"Classic Tote", "Leather Messenger"},
		},
		{
			name:      "search treats wildcards literally",
			filter:    Filter{SearchText: "%_silk"},
			wantTotal: 1,
			wantNames: []string{"Night Clutch"},
		},
		{
			name:      "price range inclusive",
			filter:    Filter{MinPrice: ptr(75), MaxPrice: ptr(120), SortKey: "-price"},
			wantTotal: 3,
			wantNames: []string{"Classic Tote", "Trail Backpack", "Night Clutch"},
		},
		{
			name:      "inverted price range matches nothing",
			filter:    Filter{Category: "tote", MinPrice: ptr(100), MaxPrice: ptr(50)},
			wantTotal: 0,
			wantNames: []string{},
		},
		{
			name:      "second page",
			filter:    Filter{SortKey: "name", Page: 2, PageSize: 2},
			wantTotal: 5,
			wantNames: []string{"Leather Messenger", "Night Clutch"},
		},
		{
			name:      "page beyond the end",
			filter:    Filter{Page: 4, PageSize: 2},
			wantTotal: 5,
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, names := find(t, db, tt.filter)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestBuild_HugePageSaturatesOffset(t *testing.T) {
	t.Parallel()

	q := Build(Filter{Page: math.MaxInt / 2, PageSize: MaxPageSize})
	assert.Equal(t, math.MaxInt, q.Offset)
	assert.Equal(t, MaxPageSize, q.Limit)

	q = Build(Filter{Page: 3, PageSize: 12})
	assert.Equal(t, 24, q.Offset)
}

func TestQuery_NonASCIISearchMatchesStoredText(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&models.Bag{
		Name: "Éclat Clutch", Description: "satin", Price: 90, Category: "clutch",
		Image: "https://img.test/e.jpg", Stock: 1,
	}).Error)

	total, names := find(t, db, Filter{SearchText: "Éclat"})
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"Éclat Clutch"}, names)
}
