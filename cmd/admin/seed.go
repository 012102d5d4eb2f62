package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"Quill/internal/core/authz"
	"Quill/internal/core/comments"
	"Quill/internal/core/follows"
	"Quill/internal/core/groups"
	"Quill/internal/core/posts"
	"Quill/internal/core/users"
	postgresRepo "Quill/internal/db/postgres"
)

const seedPassword = "quill-dev-password"

var seedUsers = []string{
	"sarah_jenkins", "michael_chen", "jessica_rodriguez", "david_nguyen",
	"emily_williams", "james_patel", "ashley_garcia", "robert_kim",
}

var seedGroups = []groups.CreateGroupRequest{
	{Title: "Travel notes", Slug: "travel", Description: "Trips, routes and places worth a detour."},
	{Title: "Kitchen", Slug: "kitchen", Description: "Recipes that survived more than one attempt."},
	{Title: "Reading list", Slug: "reading", Description: "Books, long reads and what stuck."},
}

var seedTexts = []string{
	"Spent the weekend walking the old harbour. The fog never lifted and it was perfect.",
	"Third try at sourdough. The crumb is finally open enough to call it bread.",
	"Finished a novel I started two winters ago. The ending was worth the wait.",
	"A short list of things I learned moving house: label everything twice.",
	"Night train to the coast. Slept badly, woke up to the sea, no regrets.",
	"Tomato season means the same salad every day and I am fine with that.",
	"Reread an essay on attention and put my phone in a drawer for a week.",
	"Found a bakery that opens at five. This is dangerous knowledge.",
}

var seedComments = []string{
	"Love this, thanks for sharing!",
	"Couldn't have said it better myself.",
	"Saving this for later.",
	"Now I want to try it too.",
	"Great write-up, more of these please.",
}

// seed fills an empty development database with users, groups, posts,
// comments and follows. Every seeded user logs in with seedPassword.
func seed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	numPosts := fs.Int("posts", 30, "number of posts to create")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	userService := users.NewUserService(postgresRepo.NewUserRepository(db))
	groupService := groups.NewGroupService(postgresRepo.NewGroupRepository(db))
	postRepo := postgresRepo.NewPostRepository(db)
	commentService := comments.NewCommentService(postgresRepo.NewCommentRepository(db), postRepo)
	postService := posts.NewPostService(postRepo, groupService, userService, commentService, nil, 0)
	followService := follows.NewFollowService(postgresRepo.NewFollowRepository(db), userService, postService)

	log.Println("=== Creating users ===")
	principals := make([]authz.Principal, 0, len(seedUsers))
	for _, name := range seedUsers {
		user, err := userService.Register(ctx, users.RegisterRequest{
			Username: name, Password: seedPassword, PasswordConfirm: seedPassword,
		})
		if err != nil {
			log.Printf("Warning: failed to create user %s: %v", name, err)
			continue
		}
		principals = append(principals, authz.NewPrincipal(user.ID, user.Username, false))
	}
	if len(principals) == 0 {
		return fmt.Errorf("no users created, is the database already seeded?")
	}

	log.Println("=== Creating groups ===")
	groupIDs := make([]string, 0, len(seedGroups))
	for _, req := range seedGroups {
		group, err := groupService.CreateGroup(ctx, req)
		if err != nil {
			log.Printf("Warning: failed to create group %s: %v", req.Slug, err)
			continue
		}
		groupIDs = append(groupIDs, fmt.Sprint(group.ID))
	}

	log.Println("=== Creating posts and comments ===")
	created, commented := 0, 0
	for i := 0; i < *numPosts; i++ {
		author := principals[i%len(principals)]
		input := posts.PostInput{Text: seedTexts[rand.Intn(len(seedTexts))]}
		// roughly a third of posts stay ungrouped
		if len(groupIDs) > 0 && rand.Intn(3) > 0 {
			input.Group = groupIDs[rand.Intn(len(groupIDs))]
		}

		post, err := postService.CreatePost(ctx, author, input)
		if err != nil {
			log.Printf("Warning: failed to create post: %v", err)
			continue
		}
		created++

		for j := rand.Intn(3); j > 0; j-- {
			commenter := principals[rand.Intn(len(principals))]
			_, err := commentService.AddComment(ctx, commenter, post.ID, comments.CommentInput{
				Text: seedComments[rand.Intn(len(seedComments))],
			})
			if err != nil {
				log.Printf("Warning: failed to create comment: %v", err)
				continue
			}
			commented++
		}
	}

	log.Println("=== Creating follows ===")
	followed := 0
	for i, follower := range principals {
		for _, offset := range []int{1, 2} {
			target := principals[(i+offset)%len(principals)]
			if _, err := followService.Follow(ctx, follower, target.Username); err != nil {
				log.Printf("Warning: %s failed to follow %s: %v", follower.Username, target.Username, err)
				continue
			}
			followed++
		}
	}

	log.Println("=== Summary ===")
	log.Printf("Users: %d, groups: %d, posts: %d, comments: %d, follows: %d",
		len(principals), len(groupIDs), created, commented, followed)
	log.Printf("Log in as any seeded user with password %q", seedPassword)
	return nil
}
