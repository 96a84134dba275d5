package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/ormlab/blogapi/config"
	"github.com/ormlab/blogapi/seed"
	"github.com/ormlab/blogapi/utils"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Users, "users", opts.Users, "number of users to create")
	flag.Parse()

	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	db := config.InitDatabase()

	counts, err := seed.Run(db, opts)
	if err != nil {
		utils.Sugar.Fatalf("seed failed: %v", err)
	}

	fmt.Println("Seed complete:")
	fmt.Printf("  users:           %d\n", counts.Users)
	fmt.Printf("  profiles:        %d\n", counts.Profiles)
	fmt.Printf("  posts:           %d\n", counts.Posts)
	fmt.Printf("  categories:      %d\n", counts.Categories)
	fmt.Printf("  post_categories: %d\n", counts.PostCategories)
	fmt.Printf("  comments:        %d\n", counts.Comments)
}
