// file: internal/models/notification.go
package models

import (
	"time"
)

// NotificationType enumerates the events a user can be notified about.
type NotificationType string

const (
	NotificationComment         NotificationType = "COMMENT"
	NotificationReply           NotificationType = "REPLY"
	NotificationLikePost        NotificationType = "LIKE_POST"
	NotificationLikeComment     NotificationType = "LIKE_COMMENT"
	NotificationAchievement     NotificationType = "ACHIEVEMENT"
	NotificationPostApproved    NotificationType = "POST_APPROVED"
	NotificationPostRejected    NotificationType = "POST_REJECTED"
	NotificationReactionPost    NotificationType = "REACTION_POST"
	NotificationReactionComment NotificationType = "REACTION_COMMENT"
	NotificationBookmark        NotificationType = "BOOKMARK"
	NotificationPostFeatured    NotificationType = "POST_FEATURED"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationComment, NotificationReply,
		NotificationLikePost, NotificationLikeComment,
		NotificationAchievement,
		NotificationPostApproved, NotificationPostRejected,
		NotificationReactionPost, NotificationReactionComment,
		NotificationBookmark, NotificationPostFeatured:
		return true
	}
	return false
}

// Notification is an addressed record informing one user of an event caused
// by another user or the system. Content is immutable after creation; only
// the read flag ever changes, and only from unread to read.
type Notification struct {
	ID          int64            `json:"id" db:"id"`
	RecipientID int64            `json:"recipient_id" db:"recipient_id"`
	Type        NotificationType `json:"type" db:"type"`
	Title       string           `json:"title" db:"title"`
	Message     string           `json:"message" db:"message"`

	// ActorID is the user whose action caused the notification. Nil for
	// system-generated notifications such as achievement unlocks. Never
	// equals RecipientID.
	ActorID   *int64  `json:"actor_id,omitempty" db:"actor_id"`
	PostID    *int64  `json:"post_id,omitempty" db:"post_id"`
	CommentID *int64  `json:"comment_id,omitempty" db:"comment_id"`
	ActionURL *string `json:"action_url,omitempty" db:"action_url"`

	Metadata map[string]any `json:"metadata,omitempty" db:"metadata"`

	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Denormalized actor summary (joined at read, stored at write).
	Actor *UserSummary `json:"actor,omitempty" db:"-"`
}
