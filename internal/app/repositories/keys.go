package repositories

import "github.com/emblabrowall/donosti-guide/internal/app/models"

// Key layout of the shared namespace. Child records are namespaced by their
// parent id so that a parent's children are one prefix scan away.
const (
	postPrefix       = "posts:"
	commentPrefix    = "comments:"
	threadPrefix     = "threads:"
	replyPrefix      = "replies:"
	replyIndexPrefix = "reply-index:"
	profilePrefix    = "users:"
	eventPrefix      = "events:"
	reportPrefix     = "reports:"

	AnalyticsKey         = "analytics"
	VerificationCodesKey = "verification-codes"
)

var upvotePrefixes = map[models.EntityKind]string{
	models.EntityPost:   "upvotes:",
	models.EntityThread: "thread-upvotes:",
	models.EntityReply:  "reply-upvotes:",
}

func PostKey(id string) string { return postPrefix + id }

func CommentsPrefix(postID string) string { return commentPrefix + postID + ":" }

func CommentKey(postID, id string) string { return CommentsPrefix(postID) + id }

func ThreadKey(id string) string { return threadPrefix + id }

func RepliesPrefix(threadID string) string { return replyPrefix + threadID + ":" }

func ReplyKey(threadID, id string) string { return RepliesPrefix(threadID) + id }

func ReplyIndexKey(replyID string) string { return replyIndexPrefix + replyID }

func ProfileKey(userID string) string { return profilePrefix + userID }

func EventKey(id string) string { return eventPrefix + id }

// UpvotesPrefix covers every upvote marker of one entity
func UpvotesPrefix(kind models.EntityKind, entityID string) string {
	return upvotePrefixes[kind] + entityID + ":"
}

// UpvoteKey is the marker of userID's upvote on an entity
func UpvoteKey(kind models.EntityKind, entityID, userID string) string {
	return UpvotesPrefix(kind, entityID) + userID
}

func ReportsPrefix(postID string) string { return reportPrefix + postID + ":" }

func ReportKey(postID, userID string) string { return ReportsPrefix(postID) + userID }
