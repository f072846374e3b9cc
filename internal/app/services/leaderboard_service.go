package services

import (
	"context"
	"sort"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/repositories"
)

// ScoreWeights are the points each contribution is worth
type ScoreWeights struct {
	Post    int
	Comment int
	Thread  int
	Reply   int
	Upvote  int
}

// DefaultScoreWeights rank authored content above reactions to it
var DefaultScoreWeights = ScoreWeights{Post: 5, Comment: 1, Thread: 3, Reply: 2, Upvote: 2}

// Score applies the weights to a contributor's counts
func (w ScoreWeights) Score(c models.Contributor) int {
	return w.Post*c.Posts +
		w.Comment*c.Comments +
		w.Thread*c.Threads +
		w.Reply*c.Replies +
		w.Upvote*c.UpvotesReceived
}

// Contributions is the raw material of the leaderboard
type Contributions struct {
	Posts    []*models.Post
	Comments []*models.Comment
	Threads  []*models.Thread
	Replies  []*models.Reply
	Profiles map[string]*models.Profile
}

// LeaderboardService ranks contributors. Nothing is materialized; the
// ranking is recomputed from the stored content on every call.
type LeaderboardService interface {
	Leaderboard(ctx context.Context, limit int) ([]models.Contributor, error)
}

type leaderboardServiceImpl struct {
	repos        *repositories.Repositories
	weights      ScoreWeights
	defaultLimit int
}

// NewLeaderboardService creates a new leaderboard service instance
func NewLeaderboardService(repos *repositories.Repositories, weights ScoreWeights, defaultLimit int) LeaderboardService {
	return &leaderboardServiceImpl{
		repos:        repos,
		weights:      weights,
		defaultLimit: defaultLimit,
	}
}

// Leaderboard returns the top limit contributors; limit <= 0 uses the
// configured default
func (s *leaderboardServiceImpl) Leaderboard(ctx context.Context, limit int) ([]models.Contributor, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	var in Contributions
	var err error
	if in.Posts, err = s.repos.PostRepository.List(ctx, ""); err != nil {
		return nil, err
	}
	if in.Comments, err = s.repos.CommentRepository.ListAll(ctx); err != nil {
		return nil, err
	}
	if in.Threads, err = s.repos.ThreadRepository.List(ctx, ""); err != nil {
		return nil, err
	}
	if in.Replies, err = s.repos.ReplyRepository.ListAll(ctx); err != nil {
		return nil, err
	}
	if in.Profiles, err = s.repos.ProfileRepository.ListAll(ctx); err != nil {
		return nil, err
	}
	return RankContributors(in, s.weights, limit), nil
}

// RankContributors tallies contributions per author and returns the top
// limit by total score, ties broken by ascending user id. Users without any
// contribution are not ranked.
func RankContributors(in Contributions, weights ScoreWeights, limit int) []models.Contributor {
	byUser := make(map[string]*models.Contributor)
	get := func(userID, name string, verified bool) *models.Contributor {
		c, ok := byUser[userID]
		if !ok {
			c = &models.Contributor{UserID: userID, Name: name, Verified: verified}
			byUser[userID] = c
		}
		return c
	}

	for _, p := range in.Posts {
		c := get(p.AuthorID, p.AuthorName, p.Verified)
		c.Posts++
		c.UpvotesReceived += p.Upvotes
	}
	for _, cm := range in.Comments {
		get(cm.AuthorID, cm.AuthorName, cm.Verified).Comments++
	}
	for _, t := range in.Threads {
		c := get(t.AuthorID, t.AuthorName, t.Verified)
		c.Threads++
		c.UpvotesReceived += t.Upvotes
	}
	for _, r := range in.Replies {
		c := get(r.AuthorID, r.AuthorName, r.Verified)
		c.Replies++
		c.UpvotesReceived += r.Upvotes
	}

	ranked := make([]models.Contributor, 0, len(byUser))
	for id, c := range byUser {
		if id == "" {
			continue
		}
		if p, ok := in.Profiles[id]; ok {
			c.Name = p.DisplayName()
			c.Verified = p.Verified
		}
		if c.Name == "" {
			c.Name = models.AnonymousName
		}
		c.TotalScore = weights.Score(*c)
		ranked = append(ranked, *c)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalScore != ranked[j].TotalScore {
			return ranked[i].TotalScore > ranked[j].TotalScore
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
