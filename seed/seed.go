// Package seed populates the schema with a synthetic demo dataset:
// deterministic structure, randomized content.
package seed

import (
	"fmt"
	"math/rand"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"

	"github.com/ormlab/blogapi/models"
)

// Options controls the shape of the generated dataset.
type Options struct {
	Users           int
	MaxPostsPerUser int
	MaxComments     int
}

// DefaultOptions mirrors the demo dataset shipped with the project.
func DefaultOptions() Options {
	return Options{Users: 10, MaxPostsPerUser: 5, MaxComments: 5}
}

// Counts reports how many rows each table holds after seeding.
type Counts struct {
	Users          int64
	Profiles       int64
	Posts          int64
	Categories     int64
	PostCategories int64
	Comments       int64
}

var fixedCategories = []models.Category{
	{Name: "Technology", Color: "#3b82f6"},
	{Name: "Science", Color: "#10b981"},
	{Name: "Travel", Color: "#f59e0b"},
	{Name: "Food", Color: "#ef4444"},
	{Name: "Lifestyle", Color: "#8b5cf6"},
	{Name: "Business", Color: "#6b7280"},
	{Name: "Health", Color: "#ec4899"},
	{Name: "Sports", Color: "#14b8a6"},
}

var roles = []models.Role{models.RoleUser, models.RoleUser, models.RoleUser, models.RoleModerator, models.RoleAdmin}

// Run clears every table in foreign-key order and rebuilds the demo dataset.
// It is re-runnable: the explicit clear step makes aggregate counts of two
// consecutive runs equal those of one run.
func Run(db *gorm.DB, opts Options) (Counts, error) {
	if opts.Users <= 0 {
		opts.Users = DefaultOptions().Users
	}
	if opts.MaxPostsPerUser <= 0 {
		opts.MaxPostsPerUser = DefaultOptions().MaxPostsPerUser
	}
	if opts.MaxComments < 0 {
		opts.MaxComments = 0
	}

	if err := clear(db); err != nil {
		return Counts{}, fmt.Errorf("clear tables: %w", err)
	}

	categories := make([]models.Category, len(fixedCategories))
	copy(categories, fixedCategories)
	if err := db.Create(&categories).Error; err != nil {
		return Counts{}, fmt.Errorf("create categories: %w", err)
	}

	users := make([]models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user := models.User{
			Email:    fmt.Sprintf("%s%d@%s", gofakeit.Username(), i, gofakeit.DomainName()),
			Name:     gofakeit.Name(),
			Age:      gofakeit.Number(18, 75),
			Role:     roles[rand.Intn(len(roles))],
			IsActive: gofakeit.Number(0, 9) > 1,
			Profile: &models.Profile{
				Bio:      gofakeit.Sentence(12),
				Avatar:   gofakeit.ImageURL(200, 200),
				Website:  gofakeit.URL(),
				Location: gofakeit.City(),
			},
		}
		if err := db.Create(&user).Error; err != nil {
			return Counts{}, fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}

	for _, user := range users {
		postCount := rand.Intn(opts.MaxPostsPerUser) + 1
		for i := 0; i < postCount; i++ {
			post := models.Post{
				Title:      gofakeit.Sentence(6),
				Content:    gofakeit.Paragraph(2, 4, 12, " "),
				Published:  gofakeit.Bool(),
				Views:      gofakeit.Number(0, 5000),
				AuthorID:   user.ID,
				Categories: pickCategories(categories),
			}
			if err := db.Create(&post).Error; err != nil {
				return Counts{}, fmt.Errorf("create post: %w", err)
			}

			commentCount := 0
			if opts.MaxComments > 0 {
				commentCount = rand.Intn(opts.MaxComments + 1)
			}
			for j := 0; j < commentCount; j++ {
				comment := models.Comment{
					Content:  gofakeit.Sentence(10),
					AuthorID: users[rand.Intn(len(users))].ID,
					PostID:   post.ID,
				}
				if err := db.Create(&comment).Error; err != nil {
					return Counts{}, fmt.Errorf("create comment: %w", err)
				}
			}
		}
	}

	return CountRows(db)
}

// clear deletes every row, dependents first, so no foreign key is violated.
func clear(db *gorm.DB) error {
	order := []string{"comments", "post_categories", "posts", "categories", "profiles", "users"}
	for _, table := range order {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

// pickCategories returns 1..3 distinct random categories.
func pickCategories(categories []models.Category) []models.Category {
	n := rand.Intn(3) + 1
	perm := rand.Perm(len(categories))
	picked := make([]models.Category, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, categories[idx])
	}
	return picked
}

// CountRows reports the row count of every entity table.
func CountRows(db *gorm.DB) (Counts, error) {
	var c Counts
	for _, pair := range []struct {
		model interface{}
		dst   *int64
	}{
		{&models.User{}, &c.Users},
		{&models.Profile{}, &c.Profiles},
		{&models.Post{}, &c.Posts},
		{&models.Category{}, &c.Categories},
		{&models.PostCategory{}, &c.PostCategories},
		{&models.Comment{}, &c.Comments},
	} {
		if err := db.Model(pair.model).Count(pair.dst).Error; err != nil {
			return Counts{}, err
		}
	}
	return c, nil
}
