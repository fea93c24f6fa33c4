package events

import (
	"time"
)

// Event type names. Subscribers key off these strings.
const (
	TypePostPublished       = "post.published"
	TypePostLiked           = "post.liked"
	TypePostBookmarked      = "post.bookmarked"
	TypePostFeatured        = "post.featured"
	TypePostModerated       = "post.moderated"
	TypeCommentCreated      = "comment.created"
	TypeCommentReplied      = "comment.replied"
	TypeAchievementUnlocked = "achievement.unlocked"
)

// ===============================
// POST EVENTS
// ===============================

// PostPublishedEvent is emitted when a post transitions to published.
type PostPublishedEvent struct {
	BaseEvent
	PostID    int64  `json:"post_id"`
	AuthorID  int64  `json:"author_id"`
	PostTitle string `json:"post_title"`
}

// NewPostPublishedEvent creates a new post published event
func NewPostPublishedEvent(postID, authorID int64, postTitle string) *PostPublishedEvent {
	return &PostPublishedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: TypePostPublished,
			Timestamp: time.Now(),
			UserID:    &authorID,
		},
		PostID:    postID,
		AuthorID:  authorID,
		PostTitle: postTitle,
	}
}

// PostLikedEvent is emitted when a user likes a post.
type PostLikedEvent struct {
	BaseEvent
	PostID    int64  `json:"post_id"`
	OwnerID   int64  `json:"owner_id"`
	ActorID   int64  `json:"actor_id"`
	PostTitle string `json:"post_title"`
}

// NewPostLikedEvent creates a new post liked event
func NewPostLikedEvent(postID, ownerID, actorID int64, postTitle string) *PostLikedEvent {
	return &PostLikedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: TypePostLiked,
			Timestamp: time.Now(),
			UserID:    &ownerID,
		},
		PostID:    postID,
		OwnerID:   ownerID,
		ActorID:   actorID,
		PostTitle: postTitle,
	}
}

// PostBookmarkedEvent is emitted when a user bookmarks a post.
type PostBookmarkedEvent struct {
	BaseEvent
	PostID    int64  `json:"post_id"`
	OwnerID   int64  `json:"owner_id"`
	ActorID   int64  `json:"actor_id"`
	PostTitle string `json:"post_title"`
}

// NewPostBookmarkedEvent creates a new post bookmarked event
func NewPostBookmarkedEvent(postID, ownerID, actorID int64, postTitle string) *PostBookmarkedEvent {
	return &PostBookmarkedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: TypePostBookmarked,
			Timestamp: time.Now(),
			UserID:    &ownerID,
		},
		PostID:    postID,
		OwnerID:   ownerID,
		ActorID:   actorID,
		PostTitle: postTitle,
	}
}

// PostFeaturedEvent is emitted when the editors feature a post.
type PostFeaturedEvent struct {
	BaseEvent
	PostID    int64  `json:"post_id"`
	AuthorID  int64  `json:"author_id"`
	PostTitle string `json:"post_title"`
}

// NewPostFeaturedEvent creates a new post featured event
func NewPostFeaturedEvent(postID, authorID int64, postTitle string) *PostFeaturedEvent {
	return &PostFeaturedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: TypePostFeatured,
			Timestamp: time.Now(),
			UserID:    &authorID,
		},
		PostID:    postID,
		AuthorID:  authorID,
		PostTitle: postTitle,
	}
}

// PostModeratedEvent is emitted when a moderator approves or rejects a post.
type PostModeratedEvent struct {
	BaseEvent
	PostID        int64  `json:"post_id"`
	AuthorID      int64  `json:"author_id"`
	PostTitle     string `json:"post_title"`
	Approved      bool   `json:"approved"`
	ModeratorName string `json:"moderator_name"`
	Reason        string `json:"reason,omitempty"`
}

// NewPostModeratedEvent creates a new post moderated event
func NewPostModeratedEvent(postID, authorID int64, postTitle string, approved bool, moderatorName, reason string) *PostModeratedEvent {
	return &PostModeratedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: TypePostModerated,
			Timestamp: time.Now(),
			UserID:    &authorID,
		},
		PostID:        postID,
		AuthorID:      authorID,
		PostTitle:     postTitle,
		Approved:      approved,
		ModeratorName: moderatorName,
		Reason:        reason,
	}
}

// ===============================
// COMMENT EVENTS
// ===============================

// CommentCreatedEvent is emitted when a top-level comment lands on a post.
type CommentCreatedEvent struct {
	BaseEvent
	CommentID    int64  `json:"comment_id"`
	PostID       int64  `json:"post_id"`
	PostAuthorID int64  `json:"post_author_id"`
	ActorID      int64  `json:"actor_id"`
	PostTitle    string `json:"post_title"`
	Preview      string `json:"preview"`
}

// NewCommentCreatedEvent creates a new comment created event
func NewCommentCreatedEvent(commentID, postID, postAuthorID, actorID int64, postTitle, preview string) *CommentCreatedEvent {
	return &CommentCreatedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: TypeCommentCreated,
			Timestamp: time.Now(),
			UserID:    &postAuthorID,
		},
		CommentID:    commentID,
		PostID:       postID,
		PostAuthorID: postAuthorID,
		ActorID:      actorID,
		PostTitle:    postTitle,
		Preview:      preview,
	}
}

// CommentRepliedEvent is emitted when a comment gets a reply.
type CommentRepliedEvent struct {
	BaseEvent
	CommentID      int64  `json:"comment_id"`
	PostID         int64  `json:"post_id"`
	ParentAuthorID int64  `json:"parent_author_id"`
	ActorID        int64  `json:"actor_id"`
	PostTitle      string `json:"post_title"`
	Preview        string `json:"preview"`
}

// NewCommentRepliedEvent creates a new comment replied event
func NewCommentRepliedEvent(commentID, postID, parentAuthorID, actorID int64, postTitle, preview string) *CommentRepliedEvent {
	return &CommentRepliedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: TypeCommentReplied,
			Timestamp: time.Now(),
			UserID:    &parentAuthorID,
		},
		CommentID:      commentID,
		PostID:         postID,
		ParentAuthorID: parentAuthorID,
		ActorID:        actorID,
		PostTitle:      postTitle,
		Preview:        preview,
	}
}

// ===============================
// ACHIEVEMENT EVENTS
// ===============================

// AchievementUnlockedEvent is emitted after an unlock is committed.
type AchievementUnlockedEvent struct {
	BaseEvent
	AchievementKey string `json:"achievement_key"`
	Points         int    `json:"points"`
}

// NewAchievementUnlockedEvent creates a new achievement unlocked event
func NewAchievementUnlockedEvent(userID int64, achievementKey string, points int) *AchievementUnlockedEvent {
	return &AchievementUnlockedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: TypeAchievementUnlocked,
			Timestamp: time.Now(),
			UserID:    &userID,
		},
		AchievementKey: achievementKey,
		Points:         points,
	}
}
