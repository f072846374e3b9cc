package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/kvstore"
)

func TestReplyRepository_IndexResolvesThread(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(kvstore.NewMemoryStore())

	reply := &models.Reply{ID: "reply-1", ThreadID: "thread-9", Content: "try Gros"}
	require.NoError(t, repos.ReplyRepository.Save(ctx, reply))

	got, err := repos.ReplyRepository.GetByID(ctx, "reply-1")
	require.NoError(t, err)
	assert.Equal(t, "thread-9", got.ThreadID)

	require.NoError(t, repos.ReplyRepository.Delete(ctx, got))
	_, err = repos.ReplyRepository.GetByID(ctx, "reply-1")
	assert.ErrorIs(t, err, apperrors.ErrReplyNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestPostRepository_ListFiltersAndSortsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(kvstore.NewMemoryStore())
	base := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	for i, c := range []models.Category{models.CategoryFood, models.CategoryTrips, models.CategoryFood} {
		require.NoError(t, repos.PostRepository.Save(ctx, &models.Post{
			ID:        "post-" + string(rune('a'+i)),
			Category:  c,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	food, err := repos.PostRepository.List(ctx, models.CategoryFood)
	require.NoError(t, err)
	require.Len(t, food, 2)
	assert.Equal(t, "post-c", food[0].ID)
	assert.Equal(t, "post-a", food[1].ID)

	all, err := repos.PostRepository.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCommentRepository_DeleteByPostLeavesOtherPosts(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(kvstore.NewMemoryStore())

	require.NoError(t, repos.CommentRepository.Save(ctx, &models.Comment{ID: "c1", PostID: "p1"}))
	require.NoError(t, repos.CommentRepository.Save(ctx, &models.Comment{ID: "c2", PostID: "p1"}))
	require.NoError(t, repos.CommentRepository.Save(ctx, &models.Comment{ID: "c3", PostID: "p10"}))

	require.NoError(t, repos.CommentRepository.DeleteByPost(ctx, "p1"))

	n, err := repos.CommentRepository.CountByPost(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = repos.CommentRepository.CountByPost(ctx, "p10")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMarkerRepository_KindsAreSeparate(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(kvstore.NewMemoryStore())
	markers := repos.MarkerRepository

	require.NoError(t, markers.PutUpvote(ctx, models.EntityThread, "x1", "u1"))

	has, err := markers.HasUpvoted(ctx, models.EntityPost, "x1", "u1")
	require.NoError(t, err)
	assert.False(t, has)
	has, err = markers.HasUpvoted(ctx, models.EntityThread, "x1", "u1")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, markers.ClearUpvotes(ctx, models.EntityThread, "x1"))
	n, err := markers.CountUpvotes(ctx, models.EntityThread, "x1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMarkerRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(kvstore.NewMemoryStore())
	m := repos.MarkerRepository

	require.NoError(t, m.PutUpvote(ctx, models.EntityPost, "post-1", "u1"))
	require.NoError(t, m.PutUpvote(ctx, models.EntityReply, "reply-1", "u1"))
	require.NoError(t, m.PutReport(ctx, "post-2", "u1"))
	require.NoError(t, m.PutUpvote(ctx, models.EntityThread, "thread-1", "u2"))
	require.NoError(t, m.PutUpvote(ctx, models.EntityPost, "post-1", "xu1"))

	held, err := m.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []HeldMarker{
		{Kind: models.EntityPost, EntityID: "post-1"},
		{Kind: models.EntityReply, EntityID: "reply-1"},
		{EntityID: "post-2"},
	}, held)

	require.NoError(t, m.RemoveReport(ctx, "post-2", "u1"))
	reported, err := m.HasReported(ctx, "post-2", "u1")
	require.NoError(t, err)
	assert.False(t, reported)
}

func TestSeedHelpersOnlyWriteOnce(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(kvstore.NewMemoryStore())

	created, err := repos.SettingsRepository.EnsureVerificationCodes(ctx, []string{"A"})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repos.SettingsRepository.EnsureVerificationCodes(ctx, []string{"B"})
	require.NoError(t, err)
	assert.False(t, created)

	codes, err := repos.SettingsRepository.VerificationCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, codes)

	require.NoError(t, repos.AnalyticsRepository.Update(ctx, func(a *models.Analytics) { a.TotalPosts++ }))
	created, err = repos.AnalyticsRepository.EnsureExists(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	a, err := repos.AnalyticsRepository.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, a.TotalPosts)
}
