package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormlab/blogapi/models"
)

func TestPostAnalytics(t *testing.T) {
	r, db := setupRouter(t)

	prolific := createUser(t, db, "prolific@example.com", "Prolific", models.RoleUser)
	casual := createUser(t, db, "casual@example.com", "Casual", models.RoleUser)
	catA := createCategory(t, db, "Alpha")
	catB := createCategory(t, db, "Beta")
	createCategory(t, db, "Empty")

	p1 := createPost(t, db, prolific.ID, "One", true, 10)
	p2 := createPost(t, db, prolific.ID, "Two", true, 30)
	p3 := createPost(t, db, casual.ID, "Three", false, 5)
	require.NoError(t, db.Model(&p1).Association("Categories").Append(&catA))
	require.NoError(t, db.Model(&p2).Association("Categories").Append(&catA))
	require.NoError(t, db.Model(&p3).Association("Categories").Append(&catB))

	w, body := doJSON(t, r, "GET", "/api/analytics/posts", nil)
	mustStatus(t, w, http.StatusOK)

	stats := body["categoryStats"].([]interface{})
	require.Len(t, stats, 3)
	first := stats[0].(map[string]interface{})
	assert.Equal(t, "Alpha", first["category"])
	assert.Equal(t, float64(2), first["postCount"])
	assert.Equal(t, float64(40), first["totalViews"])
	assert.Equal(t, float64(20), first["avgViews"])
	last := stats[2].(map[string]interface{})
	assert.Equal(t, "Empty", last["category"])
	assert.Equal(t, float64(0), last["postCount"])
	assert.Equal(t, float64(0), last["totalViews"])

	authors := body["topAuthors"].([]interface{})
	require.Len(t, authors, 2)
	top := authors[0].(map[string]interface{})
	assert.Equal(t, "Prolific", top["name"])
	assert.Equal(t, float64(2), top["postCount"])
}

func TestUserActivity(t *testing.T) {
	r, db := setupRouter(t)

	active := createUser(t, db, "active@example.com", "Active", models.RoleUser)
	inactive := models.User{Email: "inactive@example.com", Name: "Inactive", Role: models.RoleUser, IsActive: false}
	require.NoError(t, db.Create(&inactive).Error)

	post := createPost(t, db, active.ID, "Counted", true, 7)
	require.NoError(t, db.Create(&models.Comment{Content: "me too", AuthorID: active.ID, PostID: post.ID}).Error)
	createPost(t, db, inactive.ID, "Invisible", true, 99)

	w, body := doJSON(t, r, "GET", "/api/raw/user-activity", nil)
	mustStatus(t, w, http.StatusOK)

	rows := body["data"].([]interface{})
	require.Len(t, rows, 1, "inactive users must not appear")
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "Active", row["name"])
	assert.Equal(t, "active@example.com", row["email"])
	assert.Equal(t, float64(1), row["post_count"])
	assert.Equal(t, float64(1), row["comment_count"])
	assert.Equal(t, float64(7), row["total_views"])
}

func TestCategories(t *testing.T) {
	t.Run("list reports post counts", func(t *testing.T) {
		r, db := setupRouter(t)
		author := createUser(t, db, "tag@example.com", "Tagger", models.RoleUser)
		used := createCategory(t, db, "Used")
		createCategory(t, db, "Unused")
		post := createPost(t, db, author.ID, "Tagged", true, 0)
		require.NoError(t, db.Model(&post).Association("Categories").Append(&used))

		w, body := doJSON(t, r, "GET", "/api/categories", nil)
		mustStatus(t, w, http.StatusOK)
		rows := body["data"].([]interface{})
		require.Len(t, rows, 2)
		counts := map[string]float64{}
		for _, raw := range rows {
			row := raw.(map[string]interface{})
			counts[row["name"].(string)] = row["postCount"].(float64)
		}
		assert.Equal(t, float64(1), counts["Used"])
		assert.Equal(t, float64(0), counts["Unused"])
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		r, _ := setupRouter(t)
		w, _ := doJSON(t, r, "POST", "/api/categories", map[string]interface{}{"name": "Go", "color": "#00add8"})
		mustStatus(t, w, http.StatusCreated)
		w, body := doJSON(t, r, "POST", "/api/categories", map[string]interface{}{"name": "Go"})
		mustStatus(t, w, http.StatusBadRequest)
		assert.Contains(t, body["error"], "already exists")
	})
}
