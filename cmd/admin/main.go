// cmd/admin/main.go
// Maintenance commands run against the production database and cache
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"

	"Quill/internal/core/groups"
	"Quill/internal/core/pagecache"
	"Quill/internal/core/users"
	"Quill/internal/db/migrations"
	postgresRepo "Quill/internal/db/postgres"
)

const usage = `usage: admin <command> [flags]

commands:
  create-group -title T -slug S [-description D]
  promote      -username U
  clear-cache
  seed         [-posts N]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "create-group":
		err = createGroup(ctx, os.Args[2:])
	case "promote":
		err = promote(ctx, os.Args[2:])
	case "clear-cache":
		err = clearCache(ctx)
	case "seed":
		err = seed(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func openDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func createGroup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-group", flag.ExitOnError)
	title := fs.String("title", "", "group title")
	slug := fs.String("slug", "", "URL slug, letters, digits, - and _")
	description := fs.String("description", "", "group description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	service := groups.NewGroupService(postgresRepo.NewGroupRepository(db))
	group, err := service.CreateGroup(ctx, groups.CreateGroupRequest{
		Title:       *title,
		Slug:        *slug,
		Description: *description,
	})
	if err != nil {
		return err
	}

	log.Printf("Created group %q (id %d) at /group/%s/", group.Title, group.ID, group.Slug)
	return nil
}

func promote(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("promote", flag.ExitOnError)
	username := fs.String("username", "", "user to make an administrator")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("-username is required")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	service := users.NewUserService(postgresRepo.NewUserRepository(db))
	if err := service.PromoteToAdmin(ctx, *username); err != nil {
		return err
	}

	log.Printf("%s is now an administrator", *username)
	return nil
}

// clearCache empties the shared Redis page cache. The in-memory cache of a
// running server is cleared from the site at /admin/cache/clear/ instead.
func clearCache(ctx context.Context) error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return fmt.Errorf("REDIS_URL is not set")
	}

	store, err := pagecache.NewRedisStore(ctx, redisURL, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(ctx); err != nil {
		return err
	}
	log.Println("Page cache cleared")
	return nil
}
