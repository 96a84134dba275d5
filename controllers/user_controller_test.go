package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormlab/blogapi/models"
)

func TestCreateUser(t *testing.T) {
	t.Run("echoes input and persists it", func(t *testing.T) {
		r, db := setupRouter(t)

		w, body := doJSON(t, r, "POST", "/api/users", map[string]interface{}{
			"email": "alice@example.com",
			"name":  "Alice",
			"age":   28,
			"role":  "MODERATOR",
			"profile": map[string]string{
				"bio":      "gopher",
				"location": "Berlin",
			},
		})
		mustStatus(t, w, http.StatusCreated)
		assert.Equal(t, "alice@example.com", body["email"])
		assert.Equal(t, "Alice", body["name"])
		assert.Equal(t, float64(28), body["age"])
		assert.Equal(t, "MODERATOR", body["role"])
		profile, ok := body["profile"].(map[string]interface{})
		require.True(t, ok, "nested profile missing")
		assert.Equal(t, "gopher", profile["bio"])

		// A subsequent fetch by id returns the same values.
		id := uint(body["id"].(float64))
		w, fetched := doJSON(t, r, "GET", fmt.Sprintf("/api/users/%d", id), nil)
		mustStatus(t, w, http.StatusOK)
		assert.Equal(t, body["email"], fetched["email"])
		assert.Equal(t, body["name"], fetched["name"])
		assert.Equal(t, body["age"], fetched["age"])

		var count int64
		db.Model(&models.Profile{}).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("duplicate email is rejected and first user untouched", func(t *testing.T) {
		r, db := setupRouter(t)

		w, _ := doJSON(t, r, "POST", "/api/users", map[string]interface{}{
			"email": "bob@example.com", "name": "Bob",
		})
		mustStatus(t, w, http.StatusCreated)

		w, body := doJSON(t, r, "POST", "/api/users", map[string]interface{}{
			"email": "bob@example.com", "name": "Impostor",
		})
		mustStatus(t, w, http.StatusBadRequest)
		assert.Contains(t, body["error"], "already exists")

		var users []models.User
		require.NoError(t, db.Find(&users).Error)
		require.Len(t, users, 1)
		assert.Equal(t, "Bob", users[0].Name)
	})

	t.Run("invalid role is a client error", func(t *testing.T) {
		r, _ := setupRouter(t)
		w, _ := doJSON(t, r, "POST", "/api/users", map[string]interface{}{
			"email": "x@example.com", "name": "X", "role": "SUPERUSER",
		})
		mustStatus(t, w, http.StatusBadRequest)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("missing id yields 404", func(t *testing.T) {
		r, _ := setupRouter(t)
		w, body := doJSON(t, r, "GET", "/api/users/999", nil)
		mustStatus(t, w, http.StatusNotFound)
		assert.Equal(t, "user not found", body["error"])
	})

	t.Run("relations are eagerly loaded", func(t *testing.T) {
		r, db := setupRouter(t)
		user := createUser(t, db, "carol@example.com", "Carol", models.RoleUser)
		require.NoError(t, db.Create(&models.Profile{Bio: "bio", UserID: user.ID}).Error)
		post := createPost(t, db, user.ID, "Carol post", true, 0)
		require.NoError(t, db.Create(&models.Comment{Content: "hi", AuthorID: user.ID, PostID: post.ID}).Error)

		w, body := doJSON(t, r, "GET", fmt.Sprintf("/api/users/%d", user.ID), nil)
		mustStatus(t, w, http.StatusOK)
		assert.NotNil(t, body["profile"])
		assert.Len(t, body["posts"], 1)
		assert.Len(t, body["comments"], 1)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("missing id yields 404", func(t *testing.T) {
		r, _ := setupRouter(t)
		w, _ := doJSON(t, r, "PUT", "/api/users/999", map[string]interface{}{"name": "Nobody"})
		mustStatus(t, w, http.StatusNotFound)
	})

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		r, db := setupRouter(t)
		user := createUser(t, db, "dave@example.com", "Dave", models.RoleUser)

		w, body := doJSON(t, r, "PUT", fmt.Sprintf("/api/users/%d", user.ID), map[string]interface{}{"age": 44})
		mustStatus(t, w, http.StatusOK)
		assert.Equal(t, float64(44), body["age"])
		assert.Equal(t, "dave@example.com", body["email"])
		assert.Equal(t, "Dave", body["name"])
	})

	t.Run("profile upsert creates then updates", func(t *testing.T) {
		r, db := setupRouter(t)
		user := createUser(t, db, "erin@example.com", "Erin", models.RoleUser)

		w, _ := doJSON(t, r, "PUT", fmt.Sprintf("/api/users/%d", user.ID), map[string]interface{}{
			"profile": map[string]string{"bio": "first bio"},
		})
		mustStatus(t, w, http.StatusOK)

		w, body := doJSON(t, r, "PUT", fmt.Sprintf("/api/users/%d", user.ID), map[string]interface{}{
			"profile": map[string]string{"bio": "second bio", "location": "Oslo"},
		})
		mustStatus(t, w, http.StatusOK)
		profile := body["profile"].(map[string]interface{})
		assert.Equal(t, "second bio", profile["bio"])
		assert.Equal(t, "Oslo", profile["location"])

		// Exactly one profile per user, ever.
		var count int64
		db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&count)
		assert.EqualValues(t, 1, count)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("missing id yields 404", func(t *testing.T) {
		r, _ := setupRouter(t)
		w, _ := doJSON(t, r, "DELETE", "/api/users/999", nil)
		mustStatus(t, w, http.StatusNotFound)
	})

	t.Run("removes dependents in order", func(t *testing.T) {
		r, db := setupRouter(t)
		user := createUser(t, db, "frank@example.com", "Frank", models.RoleUser)
		require.NoError(t, db.Create(&models.Profile{Bio: "b", UserID: user.ID}).Error)
		category := createCategory(t, db, "Go")
		post := createPost(t, db, user.ID, "Frank post", true, 3)
		require.NoError(t, db.Model(&post).Association("Categories").Append(&category))
		require.NoError(t, db.Create(&models.Comment{Content: "c", AuthorID: user.ID, PostID: post.ID}).Error)

		w, _ := doJSON(t, r, "DELETE", fmt.Sprintf("/api/users/%d", user.ID), nil)
		mustStatus(t, w, http.StatusOK)

		for model, name := range map[interface{}]string{
			&models.User{}:         "users",
			&models.Profile{}:      "profiles",
			&models.Post{}:         "posts",
			&models.Comment{}:      "comments",
			&models.PostCategory{}: "junction rows",
		} {
			var count int64
			require.NoError(t, db.Model(model).Count(&count).Error)
			assert.Zero(t, count, "expected no %s left", name)
		}

		// Categories survive the owner's deletion.
		var categories int64
		db.Model(&models.Category{}).Count(&categories)
		assert.EqualValues(t, 1, categories)
	})
}

func TestListUsers(t *testing.T) {
	t.Run("pagination totals hold for every filter", func(t *testing.T) {
		r, db := setupRouter(t)
		for i := 0; i < 12; i++ {
			role := models.RoleUser
			if i%4 == 0 {
				role = models.RoleAdmin
			}
			createUser(t, db, fmt.Sprintf("user%02d@example.com", i), fmt.Sprintf("User %02d", i), role)
		}

		w, body := doJSON(t, r, "GET", "/api/users?page=1&limit=5", nil)
		mustStatus(t, w, http.StatusOK)
		pagination := body["pagination"].(map[string]interface{})
		assert.Equal(t, float64(12), pagination["total"])
		assert.Equal(t, float64(3), pagination["totalPages"])
		assert.Len(t, body["data"], 5)

		// Filtered total equals count(where).
		w, body = doJSON(t, r, "GET", "/api/users?role=ADMIN&limit=2", nil)
		mustStatus(t, w, http.StatusOK)
		pagination = body["pagination"].(map[string]interface{})
		assert.Equal(t, float64(3), pagination["total"])
		assert.Equal(t, float64(2), pagination["totalPages"])

		// Beyond-range page returns an empty array with the same totals.
		w, body = doJSON(t, r, "GET", "/api/users?page=9&limit=5", nil)
		mustStatus(t, w, http.StatusOK)
		pagination = body["pagination"].(map[string]interface{})
		assert.Equal(t, float64(12), pagination["total"])
		assert.Equal(t, float64(3), pagination["totalPages"])
		assert.Empty(t, body["data"])
	})

	t.Run("substring search spans name and email", func(t *testing.T) {
		r, db := setupRouter(t)
		createUser(t, db, "grace@example.com", "Grace Hopper", models.RoleUser)
		createUser(t, db, "linus@example.com", "Linus T", models.RoleUser)

		w, body := doJSON(t, r, "GET", "/api/users?search=grace", nil)
		mustStatus(t, w, http.StatusOK)
		assert.Len(t, body["data"], 1)

		w, body = doJSON(t, r, "GET", "/api/users?search=example.com", nil)
		mustStatus(t, w, http.StatusOK)
		assert.Len(t, body["data"], 2)
	})

	t.Run("include_profile toggles the relation", func(t *testing.T) {
		r, db := setupRouter(t)
		user := createUser(t, db, "henry@example.com", "Henry", models.RoleUser)
		require.NoError(t, db.Create(&models.Profile{Bio: "b", UserID: user.ID}).Error)

		w, body := doJSON(t, r, "GET", "/api/users", nil)
		mustStatus(t, w, http.StatusOK)
		first := body["data"].([]interface{})[0].(map[string]interface{})
		assert.Nil(t, first["profile"])

		w, body = doJSON(t, r, "GET", "/api/users?include_profile=true", nil)
		mustStatus(t, w, http.StatusOK)
		first = body["data"].([]interface{})[0].(map[string]interface{})
		assert.NotNil(t, first["profile"])
	})
}
