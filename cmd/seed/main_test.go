package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulse-social/pulse/internal/database/dbtest"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	created, err := seed(ctx, db, "password123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = seed(ctx, db, "password123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.Zero(t, created)

	posts, err := db.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	likes := map[string]int{}
	for _, p := range posts {
		likes[p.Author.Username] = p.Likes
	}
	assert.Equal(t, map[string]int{"janesmith": 24, "alexj": 42, "samw": 18}, likes)

	jane, err := db.FindUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(jane.PasswordHash), []byte("password123")))

	alex, err := db.FindUserByEmail(ctx, "alex@example.com")
	require.NoError(t, err)
	friends, err := db.IsFriend(ctx, alex.ID, jane.ID)
	require.NoError(t, err)
	assert.True(t, friends)

	stats, err := db.GetUserStats(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.PostsCount)
	assert.Equal(t, int64(1), stats.FollowersCount)
}
