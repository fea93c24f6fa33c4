package models

import "time"

// NotificationPreferences is a user's per-category opt-out switch set.
// Preferences gate notification creation only; achievement unlocks and XP
// credits happen regardless.
type NotificationPreferences struct {
	ID                int64     `json:"id" db:"id"`
	UserID            int64     `json:"user_id" db:"user_id"`
	CommentsOnMyPosts bool      `json:"comments_on_my_posts" db:"comments_on_my_posts"`
	RepliesToComments bool      `json:"replies_to_comments" db:"replies_to_comments"`
	LikesOnMyContent  bool      `json:"likes_on_my_content" db:"likes_on_my_content"`
	Bookmarks         bool      `json:"bookmarks" db:"bookmarks"`
	Achievements      bool      `json:"achievements" db:"achievements"`
	Editorial         bool      `json:"editorial" db:"editorial"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultNotificationPreferences returns the everything-on default used for
// users who never saved preferences.
func DefaultNotificationPreferences(userID int64) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:            userID,
		CommentsOnMyPosts: true,
		RepliesToComments: true,
		LikesOnMyContent:  true,
		Bookmarks:         true,
		Achievements:      true,
		Editorial:         true,
	}
}

// Allows reports whether the preferences permit a notification of type t.
// Unknown types are allowed; gating is strictly opt-out.
func (p *NotificationPreferences) Allows(t NotificationType) bool {
	if p == nil {
		return true
	}
	switch t {
	case NotificationComment:
		return p.CommentsOnMyPosts
	case NotificationReply:
		return p.RepliesToComments
	case NotificationLikePost, NotificationLikeComment,
		NotificationReactionPost, NotificationReactionComment:
		return p.LikesOnMyContent
	case NotificationBookmark:
		return p.Bookmarks
	case NotificationAchievement:
		return p.Achievements
	case NotificationPostApproved, NotificationPostRejected, NotificationPostFeatured:
		return p.Editorial
	}
	return true
}
