package services

import (
	"context"
	"time"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/repositories"
)

// deletePostTree removes a post with its comments and markers. The caller
// runs it inside a transaction and removes the photo after commit.
func deletePostTree(ctx context.Context, repos *repositories.Repositories, post *models.Post) error {
	if err := repos.CommentRepository.DeleteByPost(ctx, post.ID); err != nil {
		return err
	}
	if err := repos.MarkerRepository.ClearUpvotes(ctx, models.EntityPost, post.ID); err != nil {
		return err
	}
	if err := repos.MarkerRepository.ClearReports(ctx, post.ID); err != nil {
		return err
	}
	return repos.PostRepository.Delete(ctx, post.ID)
}

// deleteThreadTree removes a thread, its replies with their index entries
// and every upvote marker involved
func deleteThreadTree(ctx context.Context, repos *repositories.Repositories, thread *models.Thread) error {
	replies, err := repos.ReplyRepository.ListByThread(ctx, thread.ID)
	if err != nil {
		return err
	}
	for _, r := range replies {
		if err := repos.ReplyRepository.Delete(ctx, r); err != nil {
			return err
		}
		if err := repos.MarkerRepository.ClearUpvotes(ctx, models.EntityReply, r.ID); err != nil {
			return err
		}
	}
	if err := repos.MarkerRepository.ClearUpvotes(ctx, models.EntityThread, thread.ID); err != nil {
		return err
	}
	return repos.ThreadRepository.Delete(ctx, thread.ID)
}

// detachReply removes one reply and refreshes its thread: replyCount drops
// by one (never below zero), lastActivity moves to now and solved is
// recomputed from the remaining replies.
func detachReply(ctx context.Context, repos *repositories.Repositories, reply *models.Reply, now time.Time) error {
	if err := repos.ReplyRepository.Delete(ctx, reply); err != nil {
		return err
	}
	if err := repos.MarkerRepository.ClearUpvotes(ctx, models.EntityReply, reply.ID); err != nil {
		return err
	}

	thread, err := repos.ThreadRepository.GetByID(ctx, reply.ThreadID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if thread.ReplyCount > 0 {
		thread.ReplyCount--
	}
	thread.LastActivity = now
	if thread.Solved, err = anyHelpful(ctx, repos, thread.ID); err != nil {
		return err
	}
	return repos.ThreadRepository.Save(ctx, thread)
}

func anyHelpful(ctx context.Context, repos *repositories.Repositories, threadID string) (bool, error) {
	replies, err := repos.ReplyRepository.ListByThread(ctx, threadID)
	if err != nil {
		return false, err
	}
	for _, r := range replies {
		if r.Helpful {
			return true, nil
		}
	}
	return false, nil
}

// withdrawMarkers removes every upvote and report userID holds and lowers
// the matching counters, never below zero. Markers whose entity is already
// gone are just deleted.
func withdrawMarkers(ctx context.Context, repos *repositories.Repositories, userID string) error {
	held, err := repos.MarkerRepository.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, m := range held {
		if m.IsReport() {
			if err := withdrawReport(ctx, repos, m.EntityID, userID); err != nil {
				return err
			}
			continue
		}
		if err := repos.MarkerRepository.RemoveUpvote(ctx, m.Kind, m.EntityID, userID); err != nil {
			return err
		}
		entity, err := loadVotable(ctx, repos, m.Kind, m.EntityID)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return err
		}
		if *entity.upvotes > 0 {
			*entity.upvotes--
		}
		if err := entity.save(ctx); err != nil {
			return err
		}
	}
	return nil
}

func withdrawReport(ctx context.Context, repos *repositories.Repositories, postID, userID string) error {
	if err := repos.MarkerRepository.RemoveReport(ctx, postID, userID); err != nil {
		return err
	}
	post, err := repos.PostRepository.GetByID(ctx, postID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if post.ReportCount > 0 {
		post.ReportCount--
	}
	return repos.PostRepository.Save(ctx, post)
}
