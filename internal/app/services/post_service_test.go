package services

import (
	"context"
	"sync"
	"testing"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost_StoresPhotoAndCountsPost(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	post, err := env.posts.CreatePost(ctx, asUser("a"), &dto.CreatePostRequest{
		Title:     "  Bar Nestor  ",
		Category:  "food",
		Rating:    models.NumberPtr(4.5),
		PhotoData: pixelPNG,
	}, &models.FoodDetails{RestaurantName: "Nestor", FoodRating: models.NumberPtr(5)})
	require.NoError(t, err)

	assert.Equal(t, "Bar Nestor", post.Title)
	assert.Equal(t, "User a", post.AuthorName)
	assert.Equal(t, post.ID+".png", post.PhotoObject)
	assert.Equal(t, "https://photos.test/"+post.ID+".png", post.PhotoURL)
	assert.True(t, env.photos.has(post.PhotoObject))

	stored, err := env.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	details, ok := stored.Details.(*models.FoodDetails)
	require.True(t, ok)
	assert.Equal(t, "Nestor", details.RestaurantName)

	analytics, err := env.analytics.GetAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, analytics.TotalPosts)
}

func TestCreatePost_PhotoFailureIsTolerated(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.photos.failing = true

	post, err := env.posts.CreatePost(ctx, asUser("a"), &dto.CreatePostRequest{
		Title:     "Monte Igueldo",
		Category:  "activities",
		PhotoData: pixelPNG,
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, post.PhotoURL)
	assert.Empty(t, post.PhotoObject)

	post, err = env.posts.CreatePost(ctx, asUser("a"), &dto.CreatePostRequest{
		Title:     "Not a picture",
		Category:  "activities",
		PhotoData: "data:image/png;base64,aGVsbG8gd29ybGQ=",
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, post.PhotoURL)
}

func TestCreatePost_Validation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	tests := []struct {
		name    string
		req     dto.CreatePostRequest
		details models.PostDetails
	}{
		{"unknown category", dto.CreatePostRequest{Title: "x", Category: "museums"}, nil},
		{"details of another category", dto.CreatePostRequest{Title: "x", Category: "food"}, &models.TripDetails{}},
		{"rating out of range", dto.CreatePostRequest{Title: "x", Category: "clubs", Rating: models.NumberPtr(7)}, nil},
		{"bad trip date", dto.CreatePostRequest{Title: "x", Category: "trips"}, &models.TripDetails{TripDates: []string{"10/03/2025"}}},
		{"unknown examination type", dto.CreatePostRequest{Title: "x", Category: "courses"}, &models.CourseDetails{ExaminationType: []string{"oral"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.posts.CreatePost(ctx, asUser("a"), &req, tt.details)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}

	posts, err := env.posts.ListPosts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestListPosts_NewestFirstAndFiltered(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	food, err := env.posts.CreatePost(ctx, asUser("a"), &dto.CreatePostRequest{Title: "Gilda", Category: "food"}, nil)
	require.NoError(t, err)
	env.tick()
	club, err := env.posts.CreatePost(ctx, asUser("a"), &dto.CreatePostRequest{Title: "Bataplan", Category: "clubs"}, nil)
	require.NoError(t, err)

	all, err := env.posts.ListPosts(ctx, "all")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, club.ID, all[0].ID)
	assert.Equal(t, food.ID, all[1].ID)

	onlyFood, err := env.posts.ListPosts(ctx, "food")
	require.NoError(t, err)
	require.Len(t, onlyFood, 1)
	assert.Equal(t, food.ID, onlyFood[0].ID)
}

func TestDeletePost_RemovesCommentsMarkersAndPhoto(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	author := asUser("a")

	post, err := env.posts.CreatePost(ctx, author, &dto.CreatePostRequest{Title: "Hiking", Category: "activities", PhotoData: pixelPNG}, nil)
	require.NoError(t, err)
	other, err := env.posts.CreatePost(ctx, author, &dto.CreatePostRequest{Title: "Kayak", Category: "activities"}, nil)
	require.NoError(t, err)

	for _, c := range []string{"Great", "Muddy"} {
		_, err := env.posts.AddComment(ctx, asUser("c"), post.ID, c)
		require.NoError(t, err)
	}
	_, err = env.posts.AddComment(ctx, asUser("c"), other.ID, "Fun")
	require.NoError(t, err)
	_, err = env.ledger.ToggleUpvote(ctx, asUser("v"), models.EntityPost, post.ID)
	require.NoError(t, err)
	require.NoError(t, env.ledger.Report(ctx, asUser("r"), post.ID))

	require.NoError(t, env.posts.DeletePost(ctx, author, post.ID))

	_, err = env.posts.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	comments, err := env.posts.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	upvoted, err := env.ledger.UpvoteStatus(ctx, asUser("v"), models.EntityPost, post.ID)
	require.NoError(t, err)
	assert.False(t, upvoted)
	reported, err := env.repos.MarkerRepository.HasReported(ctx, post.ID, "r")
	require.NoError(t, err)
	assert.False(t, reported)
	assert.False(t, env.photos.has(post.PhotoObject))

	count, err := env.posts.CommentCount(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeletePost_NonOwnerIsForbidden(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	post, err := env.posts.CreatePost(ctx, asUser("a"), &dto.CreatePostRequest{Title: "Pintxo pote", Category: "food"}, nil)
	require.NoError(t, err)

	err = env.posts.DeletePost(ctx, asUser("b"), post.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = env.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)

	require.NoError(t, env.posts.DeletePost(ctx, asAdmin("root"), post.ID))
	_, err = env.posts.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestComments(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	post, err := env.posts.CreatePost(ctx, asUser("a"), &dto.CreatePostRequest{Title: "Tabakalera", Category: "activities"}, nil)
	require.NoError(t, err)

	_, err = env.posts.AddComment(ctx, asUser("c"), "post-missing", "hello")
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	_, err = env.posts.AddComment(ctx, asUser("c"), post.ID, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	first, err := env.posts.AddComment(ctx, asUser("c"), post.ID, "First")
	require.NoError(t, err)
	env.tick()
	second, err := env.posts.AddComment(ctx, &models.Actor{ID: "d"}, post.ID, "Second")
	require.NoError(t, err)
	assert.Equal(t, models.AnonymousName, second.AuthorName)

	comments, err := env.posts.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)

	assert.ErrorIs(t, env.posts.DeleteComment(ctx, asUser("d"), post.ID, first.ID), apperrors.ErrPermissionDenied)
	require.NoError(t, env.posts.DeleteComment(ctx, asUser("c"), post.ID, first.ID))
	assert.ErrorIs(t, env.posts.DeleteComment(ctx, asUser("c"), post.ID, first.ID), apperrors.ErrCommentNotFound)

	count, err := env.posts.CommentCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddComment_RacingDeleteLeavesNoOrphans(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := asUser("a")
	post, err := env.posts.CreatePost(ctx, owner, &dto.CreatePostRequest{Title: "Monte Igueldo", Category: "activities"}, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.posts.AddComment(ctx, asUser("c"), post.ID, "race")
			errs <- err
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, env.posts.DeletePost(ctx, owner, post.ID))
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
		}
	}
	comments, err := env.posts.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
