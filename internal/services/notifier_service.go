// file: internal/services/notifier_service.go
package services

import (
	"context"
	"fmt"

	"inkwell/internal/models"

	"go.uber.org/zap"
)

// activityNotifier implements ActivityNotifier. It sits between the platform's
// write paths and the engine: each method addresses the notification for one
// domain event and kicks an unlock pass for the user whose counters moved.
//
// The triggering action has already committed when these methods run, so
// nothing here returns an error. Failures are logged and dropped.
type activityNotifier struct {
	notifications NotificationService
	achievements  AchievementService
	logger        *zap.Logger
}

// NewActivityNotifier creates a new activity notifier
func NewActivityNotifier(notifications NotificationService, achievements AchievementService, logger *zap.Logger) ActivityNotifier {
	return &activityNotifier{
		notifications: notifications,
		achievements:  achievements,
		logger:        logger,
	}
}

// OnPostPublished runs an unlock pass for the author. Publishing produces no
// notification of its own.
func (n *activityNotifier) OnPostPublished(ctx context.Context, authorID, postID int64, postTitle string) {
	n.runUnlockPass(ctx, authorID, "post_published")
}

// OnLikeReceived notifies the post owner and re-evaluates their achievements.
func (n *activityNotifier) OnLikeReceived(ctx context.Context, ownerID, actorID, postID int64, postTitle string) {
	n.dispatch(ctx, "like_received", &DispatchNotificationRequest{
		RecipientID: ownerID,
		Type:        models.NotificationLikePost,
		Title:       "Your post was liked",
		Message:     fmt.Sprintf("Someone liked %q", postTitle),
		ActorID:     &actorID,
		PostID:      &postID,
		ActionURL:   postURL(postID),
	})
	n.runUnlockPass(ctx, ownerID, "like_received")
}

// OnBookmarkReceived notifies the post owner and re-evaluates their
// achievements.
func (n *activityNotifier) OnBookmarkReceived(ctx context.Context, ownerID, actorID, postID int64, postTitle string) {
	n.dispatch(ctx, "bookmark_received", &DispatchNotificationRequest{
		RecipientID: ownerID,
		Type:        models.NotificationBookmark,
		Title:       "Your post was bookmarked",
		Message:     fmt.Sprintf("Someone bookmarked %q", postTitle),
		ActorID:     &actorID,
		PostID:      &postID,
		ActionURL:   postURL(postID),
	})
	n.runUnlockPass(ctx, ownerID, "bookmark_received")
}

// OnCommentCreated notifies the post author. The unlock pass runs for the
// commenter, whose comment count just changed.
func (n *activityNotifier) OnCommentCreated(ctx context.Context, postAuthorID, actorID int64, comment CommentContext) {
	n.dispatch(ctx, "comment_created", &DispatchNotificationRequest{
		RecipientID: postAuthorID,
		Type:        models.NotificationComment,
		Title:       "New comment on your post",
		Message:     fmt.Sprintf("On %q: %s", comment.PostTitle, comment.Preview),
		ActorID:     &actorID,
		PostID:      &comment.PostID,
		CommentID:   &comment.CommentID,
		ActionURL:   commentURL(comment.PostID, comment.CommentID),
	})
	n.runUnlockPass(ctx, actorID, "comment_created")
}

// OnCommentReplied notifies the parent comment's author. The unlock pass runs
// for the replier.
func (n *activityNotifier) OnCommentReplied(ctx context.Context, parentAuthorID, actorID int64, comment CommentContext) {
	n.dispatch(ctx, "comment_replied", &DispatchNotificationRequest{
		RecipientID: parentAuthorID,
		Type:        models.NotificationReply,
		Title:       "New reply to your comment",
		Message:     fmt.Sprintf("On %q: %s", comment.PostTitle, comment.Preview),
		ActorID:     &actorID,
		PostID:      &comment.PostID,
		CommentID:   &comment.CommentID,
		ActionURL:   commentURL(comment.PostID, comment.CommentID),
	})
	n.runUnlockPass(ctx, actorID, "comment_replied")
}

// OnPostFeatured sends a system notification to the author. Featuring is an
// editorial action, so no actor is attached and the self-notification guard
// never suppresses it.
func (n *activityNotifier) OnPostFeatured(ctx context.Context, authorID, postID int64, postTitle string) {
	n.dispatch(ctx, "post_featured", &DispatchNotificationRequest{
		RecipientID: authorID,
		Type:        models.NotificationPostFeatured,
		Title:       "Your post was featured",
		Message:     fmt.Sprintf("The editors featured %q", postTitle),
		PostID:      &postID,
		ActionURL:   postURL(postID),
	})
	n.runUnlockPass(ctx, authorID, "post_featured")
}

// OnPostModerated tells the author the editorial outcome. Approval changes
// the author's published-post count, so an unlock pass follows it; a
// rejection changes nothing the criteria can see.
func (n *activityNotifier) OnPostModerated(ctx context.Context, authorID int64, decision ModerationContext) {
	req := &DispatchNotificationRequest{
		RecipientID: authorID,
		PostID:      &decision.PostID,
		ActionURL:   postURL(decision.PostID),
		Metadata: map[string]any{
			"moderator": decision.ModeratorName,
		},
	}
	if decision.Approved {
		req.Type = models.NotificationPostApproved
		req.Title = "Your post was approved"
		req.Message = fmt.Sprintf("%q is now live", decision.PostTitle)
	} else {
		req.Type = models.NotificationPostRejected
		req.Title = "Your post was rejected"
		req.Message = fmt.Sprintf("%q was not approved", decision.PostTitle)
		if decision.Reason != "" {
			req.Message = fmt.Sprintf("%s: %s", req.Message, decision.Reason)
			req.Metadata["reason"] = decision.Reason
		}
	}

	n.dispatch(ctx, "post_moderated", req)
	if decision.Approved {
		n.runUnlockPass(ctx, authorID, "post_moderated")
	}
}

func (n *activityNotifier) dispatch(ctx context.Context, trigger string, req *DispatchNotificationRequest) {
	if _, err := n.notifications.Dispatch(ctx, req); err != nil {
		n.logger.Error("Failed to dispatch notification",
			zap.String("trigger", trigger),
			zap.Int64("recipient_id", req.RecipientID),
			zap.String("type", string(req.Type)),
			zap.Error(err),
		)
	}
}

func (n *activityNotifier) runUnlockPass(ctx context.Context, userID int64, trigger string) {
	if _, err := n.achievements.RunUnlockPass(ctx, userID); err != nil {
		n.logger.Error("Unlock pass failed",
			zap.String("trigger", trigger),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

func postURL(postID int64) *string {
	url := fmt.Sprintf("/posts/%d", postID)
	return &url
}

func commentURL(postID, commentID int64) *string {
	url := fmt.Sprintf("/posts/%d#comment-%d", postID, commentID)
	return &url
}
