package services

import (
	"context"
	"testing"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankContributors_Score(t *testing.T) {
	in := Contributions{
		Posts: []*models.Post{
			{AuthorID: "u1", AuthorName: "Ane", Upvotes: 3},
			{AuthorID: "u1", AuthorName: "Ane", Upvotes: 2},
			{AuthorID: "u1", AuthorName: "Ane"},
		},
		Comments: []*models.Comment{
			{AuthorID: "u1"},
			{AuthorID: "u1"},
		},
		Replies: []*models.Reply{
			{AuthorID: "u1"},
		},
	}

	ranked := RankContributors(in, DefaultScoreWeights, 10)
	require.Len(t, ranked, 1)
	c := ranked[0]
	assert.Equal(t, "Ane", c.Name)
	assert.Equal(t, 3, c.Posts)
	assert.Equal(t, 2, c.Comments)
	assert.Equal(t, 0, c.Threads)
	assert.Equal(t, 1, c.Replies)
	assert.Equal(t, 5, c.UpvotesReceived)
	assert.Equal(t, 29, c.TotalScore)
}

func TestRankContributors_OrderingAndNames(t *testing.T) {
	in := Contributions{
		Posts: []*models.Post{
			{AuthorID: "zed", AuthorName: "Zed"},
			{AuthorID: "amy", AuthorName: ""},
			{AuthorID: "", AuthorName: "ghost"},
		},
		Threads: []*models.Thread{
			{AuthorID: "top", AuthorName: "Old name", Upvotes: 1},
		},
		Profiles: map[string]*models.Profile{
			"top": {ID: "top", Name: "New name", Verified: true},
		},
	}

	ranked := RankContributors(in, DefaultScoreWeights, 10)
	require.Len(t, ranked, 3)
	// amy and zed tie at 5 points and are ordered by id
	assert.Equal(t, []string{"amy", "zed", "top"}, []string{ranked[0].UserID, ranked[1].UserID, ranked[2].UserID})
	assert.Equal(t, models.AnonymousName, ranked[0].Name)
	assert.Equal(t, "New name", ranked[2].Name)
	assert.True(t, ranked[2].Verified)

	assert.Len(t, RankContributors(in, DefaultScoreWeights, 2), 2)
}

func TestLeaderboardService_CountsStoredContent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	post, err := env.posts.CreatePost(ctx, asUser("a"), &dto.CreatePostRequest{Title: "Kursaal", Category: "activities"}, nil)
	require.NoError(t, err)
	_, err = env.ledger.ToggleUpvote(ctx, asUser("b"), models.EntityPost, post.ID)
	require.NoError(t, err)
	_, err = env.posts.AddComment(ctx, asUser("b"), post.ID, "Nice")
	require.NoError(t, err)

	board, err := env.leaderboard.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "a", board[0].UserID)
	assert.Equal(t, 7, board[0].TotalScore)
	assert.Equal(t, 1, board[1].TotalScore)
}
