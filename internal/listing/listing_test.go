package listing

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jobboard/internal/database"
	"jobboard/internal/database/dbtest"
)

func jobTitles(jobs []database.Job) []string {
	titles := make([]string, 0, len(jobs))
	for _, j := range jobs {
		titles = append(titles, j.Title)
	}
	return titles
}

func TestParseQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/jobs?search=+go+&type=contract&sort_by=title&sort_order=asc&page=3", nil)

	q := ParseQuery(c)
	assert.Equal(t, "go", q.Search)
	assert.Equal(t, "contract", q.Type)
	assert.Equal(t, "title", q.SortBy)
	assert.Equal(t, 3, q.Page)

	for _, raw := range []string{"", "0", "-1", "two"} {
		assert.Equal(t, 1, ParsePage(raw), raw)
	}
}

func TestFiltersAndOrder(t *testing.T) {
	db := dbtest.Open(t)
	employer := dbtest.CreateUser(t, db, "Employer", database.RoleEmployer)

	mk := func(title, company, location, jobType string) {
		job := database.Job{
			EmployerID: employer.ID, Title: title, Description: "role", Company: company,
			Location: location, Type: jobType, Category: "technology",
		}
		require.NoError(t, db.Create(&job).Error)
	}
	mk("Go Engineer", "Acme", "Berlin", "full_time")
	mk("Data Analyst", "Gopher Labs", "Paris", "contract")
	mk("Office 100% Manager", "Initech", "berlin", "part_time")

	run := func(q Query) []string {
		var jobs []database.Job
		require.NoError(t, db.Model(&database.Job{}).Scopes(q.Filters, q.Order).Find(&jobs).Error)
		return jobTitles(jobs)
	}

	assert.ElementsMatch(t, []string{"Go Engineer", "Data Analyst"}, run(Query{Search: "GO"}), "title or company")
	assert.Equal(t, []string{"Office 100% Manager"}, run(Query{Search: "100%"}), "wildcards are literal")
	assert.Equal(t, []string{"Office 100% Manager"}, run(Query{Search: "%"}), "only the literal percent sign matches")
	assert.Empty(t, run(Query{Search: "_"}), "underscore is not a single-character wildcard")
	assert.Equal(t, []string{"Data Analyst"}, run(Query{Type: "contract"}))
	assert.Empty(t, run(Query{Category: "astronomy"}), "unknown category matches nothing")
	assert.ElementsMatch(t, []string{"Go Engineer", "Office 100% Manager"}, run(Query{Location: "BERLIN"}))

	assert.Equal(t, []string{"Data Analyst", "Go Engineer", "Office 100% Manager"}, run(Query{SortBy: "title", SortOrder: "ASC"}))
	assert.Equal(t, []string{"Office 100% Manager", "Go Engineer", "Data Analyst"}, run(Query{SortBy: "title", SortOrder: "sideways"}))
	assert.Equal(t, []string{"Office 100% Manager", "Data Analyst", "Go Engineer"}, run(Query{SortBy: "password_hash; DROP TABLE jobs"}), "falls back to newest first")
}

func TestPaginate(t *testing.T) {
	db := dbtest.Open(t)
	employer := dbtest.CreateUser(t, db, "Employer", database.RoleEmployer)
	for i := 1; i <= 23; i++ {
		dbtest.CreateJob(t, db, employer.ID, fmt.Sprintf("Job %02d", i), true)
	}
	ctx := context.Background()
	base := db.Model(&database.Job{})
	byTitle := func(tx *gorm.DB) *gorm.DB { return tx.Order("title") }

	first, err := Paginate[database.Job](ctx, base, 1, byTitle)
	require.NoError(t, err)
	assert.Equal(t, int64(23), first.Total)
	assert.Equal(t, 3, first.LastPage)
	assert.Equal(t, PerPage, first.PerPage)
	require.Len(t, first.Data, 10)
	assert.Equal(t, "Job 01", first.Data[0].Title)
	assert.Equal(t, 1, *first.From)
	assert.Equal(t, 10, *first.To)

	last, err := Paginate[database.Job](ctx, base, 3, byTitle)
	require.NoError(t, err)
	require.Len(t, last.Data, 3)
	assert.Equal(t, 21, *last.From)
	assert.Equal(t, 23, *last.To)

	beyond, err := Paginate[database.Job](ctx, base, 9, byTitle)
	require.NoError(t, err)
	assert.Empty(t, beyond.Data)
	assert.NotNil(t, beyond.Data)
	assert.Nil(t, beyond.From)
	assert.Equal(t, int64(23), beyond.Total)

	none, err := Paginate[database.Job](ctx, base.Where("title = ?", "nope"), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, none.LastPage)
	assert.Equal(t, int64(0), none.Total)
}
