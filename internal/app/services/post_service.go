package services

import (
	"context"
	"strings"

	"github.com/emblabrowall/donosti-guide/internal/app/auth"
	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/emblabrowall/donosti-guide/internal/app/repositories"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/filestorage"
	"github.com/emblabrowall/donosti-guide/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// PostService defines the operations on tips and their comments
type PostService interface {
	CreatePost(ctx context.Context, actor *models.Actor, req *dto.CreatePostRequest, details models.PostDetails) (*models.Post, error)
	ListPosts(ctx context.Context, category string) ([]*models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	DeletePost(ctx context.Context, actor *models.Actor, id string) error

	AddComment(ctx context.Context, actor *models.Actor, postID, content string) (*models.Comment, error)
	ListComments(ctx context.Context, postID string) ([]*models.Comment, error)
	CommentCount(ctx context.Context, postID string) (int, error)
	DeleteComment(ctx context.Context, actor *models.Actor, postID, commentID string) error
}

type postServiceImpl struct {
	repos  *repositories.Repositories
	authz  *auth.AuthorizationService
	photos filestorage.PhotoStorage
	clock  Clock
	logger zerolog.Logger
}

// NewPostService creates a new post service instance
func NewPostService(
	repos *repositories.Repositories,
	authz *auth.AuthorizationService,
	photos filestorage.PhotoStorage,
	clock Clock,
	logger zerolog.Logger,
) PostService {
	return &postServiceImpl{
		repos:  repos,
		authz:  authz,
		photos: photos,
		clock:  clock,
		logger: logger,
	}
}

// CreatePost stores a new tip authored by actor. A photo that cannot be
// decoded or stored is dropped and the post is created without it.
func (s *postServiceImpl) CreatePost(ctx context.Context, actor *models.Actor, req *dto.CreatePostRequest, details models.PostDetails) (*models.Post, error) {
	category := models.Category(req.Category)
	if !category.Valid() {
		return nil, apperrors.NewValidationError("category must be one of: courses food clubs activities trips")
	}
	if details == nil {
		var err error
		if details, err = models.NewDetails(category); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if details.Category() != category {
		return nil, apperrors.NewValidationError("category fields do not match category " + string(category))
	}
	if err := details.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		return nil, apperrors.NewValidationError("rating must be between 0 and 5")
	}

	now := s.clock.now()
	post := &models.Post{
		ID:         helpers.NewIDAt("post", now),
		Category:   category,
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		Area:       req.Area,
		Price:      req.Price,
		Rating:     req.Rating,
		AuthorID:   actor.ID,
		AuthorName: authorName(actor),
		Verified:   actor.Verified,
		Timestamp:  now,
		Details:    details,
	}

	if req.PhotoData != "" {
		s.attachPhoto(ctx, post, req.PhotoData)
	}

	err := s.repos.Tx(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		if err := tx.PostRepository.Save(ctx, post); err != nil {
			return err
		}
		return tx.AnalyticsRepository.Update(ctx, func(a *models.Analytics) { a.TotalPosts++ })
	})
	if err != nil {
		s.logger.Error().Err(err).Str("post_id", post.ID).Msg("Error saving post")
		s.removePhoto(ctx, post)
		return nil, err
	}

	s.logger.Info().Str("post_id", post.ID).Str("author_id", actor.ID).Str("category", string(category)).Msg("Post created")
	return post, nil
}

func (s *postServiceImpl) attachPhoto(ctx context.Context, post *models.Post, data string) {
	photo, err := filestorage.DecodeDataURL(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("post_id", post.ID).Msg("Photo rejected, creating post without it")
		return
	}

	name := post.ID + photo.Extension
	url, err := s.photos.SavePhoto(ctx, name, photo)
	if err != nil {
		s.logger.Warn().Err(err).Str("post_id", post.ID).Msg("Photo upload failed, creating post without it")
		return
	}
	post.PhotoURL = url
	post.PhotoObject = name
}

func (s *postServiceImpl) removePhoto(ctx context.Context, post *models.Post) {
	if post.PhotoObject == "" {
		return
	}
	if err := s.photos.DeletePhoto(ctx, post.PhotoObject); err != nil {
		s.logger.Warn().Err(err).Str("post_id", post.ID).Str("object", post.PhotoObject).Msg("Photo removal failed")
	}
}

// ListPosts returns posts newest first; "" or "all" lists every category
func (s *postServiceImpl) ListPosts(ctx context.Context, category string) ([]*models.Post, error) {
	if category == "all" {
		category = ""
	}
	return s.repos.PostRepository.List(ctx, models.Category(category))
}

// GetPost returns one post
func (s *postServiceImpl) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.repos.PostRepository.GetByID(ctx, id)
}

// DeletePost removes the post and everything hanging off it
func (s *postServiceImpl) DeletePost(ctx context.Context, actor *models.Actor, id string) error {
	var deleted *models.Post
	err := s.repos.Tx(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		post, err := tx.PostRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authz.CanDelete(actor, post.AuthorID, auth.ResourcePost); err != nil {
			return err
		}
		deleted = post
		return deletePostTree(ctx, tx, post)
	})
	if err != nil {
		return err
	}

	s.removePhoto(ctx, deleted)
	s.logger.Info().Str("post_id", id).Str("actor_id", actor.ID).Msg("Post deleted")
	return nil
}

// AddComment appends a comment to an existing post
func (s *postServiceImpl) AddComment(ctx context.Context, actor *models.Actor, postID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content is required")
	}

	now := s.clock.now()
	comment := &models.Comment{
		ID:         helpers.NewIDAt("comment", now),
		PostID:     postID,
		Content:    content,
		AuthorID:   actor.ID,
		AuthorName: authorName(actor),
		Verified:   actor.Verified,
		Timestamp:  now,
	}
	err := s.repos.Tx(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		// locks the post so a concurrent delete cannot orphan the comment
		if _, err := tx.PostRepository.GetByID(ctx, postID); err != nil {
			return err
		}
		return tx.CommentRepository.Save(ctx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns the comments of a post, oldest first
func (s *postServiceImpl) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	return s.repos.CommentRepository.ListByPost(ctx, postID)
}

// CommentCount returns the number of comments of a post
func (s *postServiceImpl) CommentCount(ctx context.Context, postID string) (int, error) {
	return s.repos.CommentRepository.CountByPost(ctx, postID)
}

// DeleteComment removes one comment
func (s *postServiceImpl) DeleteComment(ctx context.Context, actor *models.Actor, postID, commentID string) error {
	comment, err := s.repos.CommentRepository.GetByID(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if err := s.authz.CanDelete(actor, comment.AuthorID, auth.ResourceComment); err != nil {
		return err
	}
	return s.repos.CommentRepository.Delete(ctx, postID, commentID)
}

func authorName(actor *models.Actor) string {
	if actor.Name == "" {
		return models.AnonymousName
	}
	return actor.Name
}
