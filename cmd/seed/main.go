// Seed inserts the demo accounts, one friendship and a few posts.
// Running it twice is safe: accounts whose email already exists are skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pulse-social/pulse/internal/config"
	"github.com/pulse-social/pulse/internal/database"
	"github.com/pulse-social/pulse/internal/models"
	"github.com/pulse-social/pulse/pkg/logger"
)

type fixture struct {
	user  models.User
	post  string
	likes int
}

var fixtures = []fixture{
	{
		user: models.User{
			Name:     "Jane Smith",
			Username: "janesmith",
			Email:    "jane@example.com",
			Avatar:   "https://i.pravatar.cc/150?img=1",
			Bio:      "UI/UX Designer | Creating beautiful interfaces | Coffee lover",
		},
		post:  "Just launched my new portfolio website! Check it out and let me know what you think.",
		likes: 24,
	},
	{
		user: models.User{
			Name:     "Alex Johnson",
			Username: "alexj",
			Email:    "alex@example.com",
			Avatar:   "https://i.pravatar.cc/150?img=2",
			Bio:      "Frontend Developer | React enthusiast | Learning Next.js",
		},
		post:  "Working on a new React project using Next.js and Tailwind. The developer experience is amazing!",
		likes: 42,
	},
	{
		user: models.User{
			Name:     "Sam Wilson",
			Username: "samw",
			Email:    "sam@example.com",
			Avatar:   "https://i.pravatar.cc/150?img=3",
			Bio:      "Book lover | Tech enthusiast | Always learning",
		},
		post:  `Just finished reading "Atomic Habits" by James Clear. Highly recommend it to anyone looking to build better habits!`,
		likes: 18,
	},
}

func main() {
	var password string
	var timeout time.Duration
	flag.StringVar(&password, "password", "password123", "password for every seeded account")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline")
	flag.Parse()

	if err := run(password, timeout); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(password string, timeout time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, "console"); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.Database, false)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	created, err := seed(ctx, db, password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	logger.Info("seed done", zap.Int("users_created", created), zap.Duration("took", time.Since(start)))
	return nil
}

// seed returns how many accounts it created.
func seed(ctx context.Context, db *database.Database, password string, cost int) (int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return 0, errors.Wrap(err, "hashing seed password failed")
	}

	users := make([]*models.User, len(fixtures))
	created := 0
	for i, f := range fixtures {
		existing, err := db.FindUserByEmail(ctx, f.user.Email)
		switch {
		case err == nil:
			logger.Info("user exists, skipping", zap.String("email", f.user.Email))
			users[i] = existing
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return created, err
		}

		u := f.user
		u.PasswordHash = string(hash)
		if err := db.SaveUser(ctx, &u); err != nil {
			return created, errors.Wrapf(err, "creating %s failed", u.Email)
		}
		users[i] = &u
		created++

		post := &models.Post{Content: f.post, AuthorID: u.ID, Likes: f.likes}
		if err := db.CreatePost(ctx, post); err != nil {
			return created, errors.Wrapf(err, "creating post for %s failed", u.Email)
		}
	}

	// Jane and Alex are friends.
	jane, alex := users[0], users[1]
	friends, err := db.IsFriend(ctx, jane.ID, alex.ID)
	if err != nil {
		return created, err
	}
	if !friends {
		if _, err := db.ToggleFriendship(ctx, jane.ID, alex.ID); err != nil {
			return created, err
		}
	}
	return created, nil
}
