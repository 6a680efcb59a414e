// Package listing composes filtered, sorted and paginated job queries.
package listing

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Query is the set of listing options a caller may supply.
type Query struct {
	Search    string
	Type      string
	Category  string
	Location  string
	SortBy    string
	SortOrder string
	Page      int
}

var sortableColumns = map[string]struct{}{
	"created_at":           {},
	"updated_at":           {},
	"title":                {},
	"company":              {},
	"location":             {},
	"salary":               {},
	"application_deadline": {},
}

const (
	defaultSortBy    = "created_at"
	defaultSortOrder = "desc"
)

// ParseQuery reads listing options from the query string.
func ParseQuery(c *gin.Context) Query {
	return Query{
		Search:    strings.TrimSpace(c.Query("search")),
		Type:      strings.TrimSpace(c.Query("type")),
		Category:  strings.TrimSpace(c.Query("category")),
		Location:  strings.TrimSpace(c.Query("location")),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Page:      ParsePage(c.Query("page")),
	}
}

// ParsePage returns the requested page, or 1 for anything that is not a positive integer.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Filters applies the optional search, type, category and location filters.
func (q Query) Filters(db *gorm.DB) *gorm.DB {
	if q.Search != "" {
		pattern := containsPattern(q.Search)
		db = db.Where(
			db.Session(&gorm.Session{NewDB: true}).
				Where("LOWER(jobs.title) LIKE ? ESCAPE '\\'", pattern).
				Or("LOWER(jobs.description) LIKE ? ESCAPE '\\'", pattern).
				Or("LOWER(jobs.company) LIKE ? ESCAPE '\\'", pattern),
		)
	}
	if q.Type != "" {
		db = db.Where("jobs.type = ?", q.Type)
	}
	if q.Category != "" {
		db = db.Where("jobs.category = ?", q.Category)
	}
	if q.Location != "" {
		db = db.Where("LOWER(jobs.location) LIKE ? ESCAPE '\\'", containsPattern(q.Location))
	}
	return db
}

// Order sorts by the requested column and direction.
// Unknown values fall back to created_at and desc independently; id breaks ties.
func (q Query) Order(db *gorm.DB) *gorm.DB {
	column := q.SortBy
	if _, ok := sortableColumns[column]; !ok {
		column = defaultSortBy
	}
	order := strings.ToLower(q.SortOrder)
	if order != "asc" && order != "desc" {
		order = defaultSortOrder
	}
	desc := order == "desc"
	return db.
		Order(clause.OrderByColumn{Column: clause.Column{Table: "jobs", Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "jobs", Name: "id"}, Desc: desc})
}

// containsPattern builds a lower-cased LIKE pattern with the input's wildcards escaped.
func containsPattern(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(s))
	return "%" + escaped + "%"
}
