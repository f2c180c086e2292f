package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func openSeeded(t *testing.T) *ContentStore {
	t.Helper()
	s, err := OpenContentStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, Seed(context.Background(), s, seedNow))
	return s
}

func TestSeedIsIdempotent(t *testing.T) {
	s := openSeeded(t)
	require.NoError(t, Seed(context.Background(), s, seedNow))

	p, ok, err := s.FindUserByUsername(context.Background(), "orange")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, p.PostCount)
}

func TestMigrationsRunOnce(t *testing.T) {
	s := openSeeded(t)
	require.NoError(t, s.migrate())
	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestFindPostsByTitleOrBodyContains(t *testing.T) {
	ctx := context.Background()
	s := openSeeded(t)

	posts, err := s.FindPostsByTitleOrBodyContains(ctx, "django", 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Django для начинающих", posts[0].Title)
	assert.Equal(t, "python_dev", posts[0].AuthorUsername)

	// Cyrillic matching is case-insensitive through the shadow columns.
	posts, err = s.FindPostsByTitleOrBodyContains(ctx, "машинном обучении", 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Машинное обучение", posts[0].Title)

	posts, err = s.FindPostsByTitleOrBodyContains(ctx, "ТЕЛЕВИЗОР", 10)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	posts, err = s.FindPostsByTitleOrBodyContains(ctx, "о", 2)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = s.FindPostsByTitleOrBodyContains(ctx, "kubernetes", 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGetPostByID(t *testing.T) {
	ctx := context.Background()
	s := openSeeded(t)

	d, ok, err := s.GetPostByID(ctx, 1, 5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Hello World", d.Title)
	assert.Equal(t, "Orange", d.AuthorUsername)
	assert.Equal(t, 2, d.LikeCount)
	require.Len(t, d.RecentComments, 2)
	assert.Equal(t, "traveler", d.RecentComments[0].AuthorUsername)

	_, ok, err = s.GetPostByID(ctx, 99999, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindUserByUsername(t *testing.T) {
	ctx := context.Background()
	s := openSeeded(t)

	p, ok, err := s.FindUserByUsername(ctx, "@ORANGE")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Orange", p.Username)
	assert.Equal(t, 3, p.PostCount)
	assert.Equal(t, 2, p.SubscriberCount)
	assert.Equal(t, "QLED телевизоры", p.MostRecentPostTitle)

	p, ok, err = s.FindUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, p.PostCount)
	assert.Empty(t, p.MostRecentPostTitle)

	_, ok, err = s.FindUserByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()
	s := openSeeded(t)
	admin, _, err := s.FindUserByUsername(ctx, "admin")
	require.NoError(t, err)

	a, ok, err := s.GetUserByID(ctx, admin.ID, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "admin", a.Username)
	assert.Empty(t, a.RecentPosts)
	require.Len(t, a.RecentComments, 1)
	assert.Equal(t, "/posts/1/", a.RecentComments[0].Permalink())

	_, ok, err = s.GetUserByID(ctx, 424242, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListRecentPostsByAuthor(t *testing.T) {
	ctx := context.Background()
	s := openSeeded(t)
	orange, _, _ := s.FindUserByUsername(ctx, "orange")

	posts, err := s.ListRecentPostsByAuthor(ctx, orange.ID, 10)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "QLED телевизоры", posts[0].Title)
	assert.Equal(t, "Hello World", posts[2].Title)
	assert.True(t, posts[0].PubDate.After(posts[1].PubDate))
}

func TestRankActiveAuthors(t *testing.T) {
	ctx := context.Background()
	s := openSeeded(t)
	admin, _, _ := s.FindUserByUsername(ctx, "admin")
	orange, _, _ := s.FindUserByUsername(ctx, "orange")

	all, err := s.RankActiveAuthors(ctx, 0, nil, 5)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Orange", all[0].Username)
	assert.Equal(t, 3, all[0].PostCount)
	assert.Equal(t, "python_dev", all[1].Username)
	assert.Equal(t, "traveler", all[2].Username)

	followed, err := s.ListFollowedIDs(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{orange.ID}, followed)

	ranked, err := s.RankActiveAuthors(ctx, admin.ID, followed, 5)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "python_dev", ranked[0].Username)
	assert.Equal(t, "Машинное обучение", ranked[0].MostRecentPostTitle)

	ranked, err = s.RankActiveAuthors(ctx, orange.ID, nil, 1)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
}

func TestGetProfileStats(t *testing.T) {
	ctx := context.Background()
	s := openSeeded(t)
	orange, _, _ := s.FindUserByUsername(ctx, "orange")
	admin, _, _ := s.FindUserByUsername(ctx, "admin")

	st, err := s.GetProfileStats(ctx, orange.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, st.PostCount)
	assert.Equal(t, 2, st.SubscriberCount)

	st, err = s.GetProfileStats(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, st.SubscriptionCount)
}
