package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulse-social/pulse/internal/database"
	"github.com/pulse-social/pulse/internal/database/dbtest"
	"github.com/pulse-social/pulse/internal/services"
	"github.com/pulse-social/pulse/pkg/auth"
)

type env struct {
	db    *database.Database
	jwt   *auth.JWTManager
	auth  services.AuthService
	posts services.PostService
	users services.UserService
}

func newEnv(t *testing.T, revoker auth.Revoker) *env {
	t.Helper()
	db := dbtest.New(t)
	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	return &env{
		db:    db,
		jwt:   jwtMgr,
		auth:  services.NewAuthService(db, jwtMgr, revoker, bcrypt.MinCost),
		posts: services.NewPostService(db),
		users: services.NewUserService(db),
	}
}

func (e *env) register(t *testing.T, username string) *services.AuthResponse {
	t.Helper()
	res, err := e.auth.Register(context.Background(), services.RegisterRequest{
		Name:     gofakeit.Name(),
		Username: username,
		Email:    username + "@x.com",
		Password: "pw",
	})
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	e := newEnv(t, nil)
	res := e.register(t, "alice")

	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, "https://i.pravatar.cc/150?u=alice@x.com", res.User.Avatar)
	assert.NotEqual(t, "pw", res.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("pw")))
	assert.Zero(t, res.User.PostsCount)

	id, err := e.jwt.UserID(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id)
}

func TestRegisterConflicts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	first := e.register(t, "alice")

	_, err := e.auth.Register(ctx, services.RegisterRequest{Name: "A", Username: "alice2", Email: "alice@x.com", Password: "pw"})
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = e.auth.Register(ctx, services.RegisterRequest{Name: "A", Username: "alice", Email: "new@x.com", Password: "other"})
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = e.auth.Login(ctx, services.LoginRequest{Email: "alice@x.com", Password: "pw"})
	require.NoError(t, err)

	me, err := e.users.Me(ctx, first.User.ID)
	require.NoError(t, err)
	assert.Equal(t, first.User.Name, me.Name)
}

func TestRegisterInvalidInput(t *testing.T) {
	e := newEnv(t, nil)
	full := services.RegisterRequest{Name: "A", Username: "a", Email: "a@x.com", Password: "pw"}

	for _, blank := range []func(*services.RegisterRequest){
		func(r *services.RegisterRequest) { r.Name = "" },
		func(r *services.RegisterRequest) { r.Username = "" },
		func(r *services.RegisterRequest) { r.Email = "" },
		func(r *services.RegisterRequest) { r.Password = "" },
		func(r *services.RegisterRequest) { r.Password = strings.Repeat("x", 73) },
	} {
		req := full
		blank(&req)
		_, err := e.auth.Register(context.Background(), req)
		assert.ErrorIs(t, err, services.ErrInvalidInput)
	}

	var n int64
	require.NoError(t, e.db.DB().Table("users").Count(&n).Error)
	assert.Zero(t, n)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	reg := e.register(t, "bob")

	res, err := e.auth.Login(ctx, services.LoginRequest{Email: "bob@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	_, err = e.auth.Login(ctx, services.LoginRequest{Email: "bob@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	_, err = e.auth.Login(ctx, services.LoginRequest{Email: "nobody@x.com", Password: "pw"})
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	_, err = e.auth.Login(ctx, services.LoginRequest{Email: "bob@x.com"})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestLogoutRevokesToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	revoker := auth.NewRedisRevoker(client)

	ctx := context.Background()
	e := newEnv(t, revoker)
	res := e.register(t, "carol")

	require.NoError(t, e.auth.Logout(ctx, res.Token))
	revoked, err := revoker.IsRevoked(ctx, res.Token)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, e.auth.Logout(ctx, "garbage"), services.ErrUnauthorized)
}

func TestPostLifecycle(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	alice := e.register(t, "alice").User
	bob := e.register(t, "bob").User

	_, err := e.posts.Create(ctx, alice.ID, "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	_, err = e.posts.Create(ctx, alice.ID, strings.Repeat("é", 501))
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	post, err := e.posts.Create(ctx, alice.ID, "hello")
	require.NoError(t, err)
	assert.Zero(t, post.Likes)
	assert.Equal(t, "alice", post.Author.Username)

	_, err = e.posts.Update(ctx, post.ID, bob.ID, "mine now")
	assert.ErrorIs(t, err, services.ErrForbidden)
	_, err = e.posts.Update(ctx, post.ID+100, alice.ID, "x")
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = e.posts.Update(ctx, post.ID, alice.ID, "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	updated, err := e.posts.Update(ctx, post.ID, alice.ID, "hello, world")
	require.NoError(t, err)
	assert.Equal(t, "hello, world", updated.Content)
	assert.False(t, updated.UpdatedAt.Before(post.UpdatedAt))

	assert.ErrorIs(t, e.posts.Delete(ctx, post.ID, bob.ID), services.ErrForbidden)
	require.NoError(t, e.posts.Delete(ctx, post.ID, alice.ID))
	assert.ErrorIs(t, e.posts.Delete(ctx, post.ID, alice.ID), services.ErrNotFound)

	all, err := e.posts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLikeIsMonotonic(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	alice := e.register(t, "alice").User
	post, err := e.posts.Create(ctx, alice.ID, "hello")
	require.NoError(t, err)

	prev := post.Likes
	for i := 0; i < 3; i++ {
		likes, err := e.posts.Like(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, prev+1, likes)
		prev = likes
	}
	assert.Equal(t, 3, prev)

	_, err = e.posts.Like(ctx, post.ID+100)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestListByAuthor(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	alice := e.register(t, "alice").User
	bob := e.register(t, "bob").User
	_, err := e.posts.Create(ctx, alice.ID, "a1")
	require.NoError(t, err)
	_, err = e.posts.Create(ctx, bob.ID, "b1")
	require.NoError(t, err)

	posts, err := e.posts.ListByAuthor(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "b1", posts[0].Content)

	_, err = e.posts.ListByAuthor(ctx, bob.ID+100)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestFriendshipScenario(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	alice := e.register(t, "alice").User
	bob := e.register(t, "bob").User

	state, err := e.users.ToggleFriendship(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, state)

	ab, err := e.users.IsFriend(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	ba, err := e.users.IsFriend(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ab)
	assert.Equal(t, ab, ba)

	state, err = e.users.ToggleFriendship(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, state)

	_, err = e.users.ToggleFriendship(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = e.users.ToggleFriendship(ctx, alice.ID, bob.ID+100)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	alice := e.register(t, "alice").User
	bob := e.register(t, "bob").User
	carol := e.register(t, "carol").User
	_, err := e.users.ToggleFriendship(ctx, alice.ID, carol.ID)
	require.NoError(t, err)

	list, err := e.users.ListUsers(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, bob.ID, list[0].ID)
	assert.False(t, list[0].IsFriend)
	assert.Equal(t, carol.ID, list[1].ID)
	assert.True(t, list[1].IsFriend)
	assert.Equal(t, int64(1), list[1].FollowersCount)

	p, err := e.users.GetProfile(ctx, carol.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, p.IsFriend)
	assert.Equal(t, int64(1), p.FollowingCount)

	_, err = e.users.GetProfile(ctx, alice.ID, carol.ID+100)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateSelfIsPartial(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	alice := e.register(t, "alice").User

	bio := "gopher"
	updated, err := e.users.UpdateSelf(ctx, alice.ID, services.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "gopher", updated.Bio)
	assert.Equal(t, alice.Name, updated.Name)
	assert.Equal(t, alice.Avatar, updated.Avatar)

	empty := ""
	updated, err = e.users.UpdateSelf(ctx, alice.ID, services.ProfileUpdate{Avatar: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Avatar)
	assert.Equal(t, "gopher", updated.Bio)

	same, err := e.users.UpdateSelf(ctx, alice.ID, services.ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, updated.Name, same.Name)
}

func TestDeleteSelfRemovesPosts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	alice := e.register(t, "alice").User
	bob := e.register(t, "bob").User
	_, err := e.posts.Create(ctx, alice.ID, "mine")
	require.NoError(t, err)
	_, err = e.posts.Create(ctx, bob.ID, "bob's")
	require.NoError(t, err)

	require.NoError(t, e.users.DeleteSelf(ctx, alice.ID))

	posts, err := e.posts.List(ctx)
	require.NoError(t, err)
	for _, p := range posts {
		assert.NotEqual(t, alice.ID, p.AuthorID)
	}
	assert.ErrorIs(t, e.users.DeleteSelf(ctx, alice.ID), services.ErrNotFound)
}
