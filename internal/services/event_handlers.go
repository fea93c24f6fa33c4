// file: internal/services/event_handlers.go
package services

import (
	"context"
	"fmt"

	"inkwell/internal/events"
)

// RegisterEventHandlers subscribes the activity notifier to the platform's
// domain events. Handlers never return errors for notifier work because the
// notifier already swallows its own failures; an error here would only make
// the bus re-log what was logged already.
func RegisterEventHandlers(bus events.EventBus, notifier ActivityNotifier) error {
	subscriptions := []struct {
		eventType string
		handler   events.EventHandler
	}{
		{
			events.TypePostPublished,
			events.NewTypedEventHandler("notifier.post_published",
				func(ctx context.Context, e *events.PostPublishedEvent) error {
					notifier.OnPostPublished(ctx, e.AuthorID, e.PostID, e.PostTitle)
					return nil
				}),
		},
		{
			events.TypePostLiked,
			events.NewTypedEventHandler("notifier.post_liked",
				func(ctx context.Context, e *events.PostLikedEvent) error {
					notifier.OnLikeReceived(ctx, e.OwnerID, e.ActorID, e.PostID, e.PostTitle)
					return nil
				}),
		},
		{
			events.TypePostBookmarked,
			events.NewTypedEventHandler("notifier.post_bookmarked",
				func(ctx context.Context, e *events.PostBookmarkedEvent) error {
					notifier.OnBookmarkReceived(ctx, e.OwnerID, e.ActorID, e.PostID, e.PostTitle)
					return nil
				}),
		},
		{
			events.TypeCommentCreated,
			events.NewTypedEventHandler("notifier.comment_created",
				func(ctx context.Context, e *events.CommentCreatedEvent) error {
					notifier.OnCommentCreated(ctx, e.PostAuthorID, e.ActorID, CommentContext{
						PostID:    e.PostID,
						CommentID: e.CommentID,
						PostTitle: e.PostTitle,
						Preview:   e.Preview,
					})
					return nil
				}),
		},
		{
			events.TypeCommentReplied,
			events.NewTypedEventHandler("notifier.comment_replied",
				func(ctx context.Context, e *events.CommentRepliedEvent) error {
					notifier.OnCommentReplied(ctx, e.ParentAuthorID, e.ActorID, CommentContext{
						PostID:    e.PostID,
						CommentID: e.CommentID,
						PostTitle: e.PostTitle,
						Preview:   e.Preview,
					})
					return nil
				}),
		},
		{
			events.TypePostFeatured,
			events.NewTypedEventHandler("notifier.post_featured",
				func(ctx context.Context, e *events.PostFeaturedEvent) error {
					notifier.OnPostFeatured(ctx, e.AuthorID, e.PostID, e.PostTitle)
					return nil
				}),
		},
		{
			events.TypePostModerated,
			events.NewTypedEventHandler("notifier.post_moderated",
				func(ctx context.Context, e *events.PostModeratedEvent) error {
					notifier.OnPostModerated(ctx, e.AuthorID, ModerationContext{
						PostID:        e.PostID,
						PostTitle:     e.PostTitle,
						Approved:      e.Approved,
						ModeratorName: e.ModeratorName,
						Reason:        e.Reason,
					})
					return nil
				}),
		},
	}

	for _, sub := range subscriptions {
		if err := bus.Subscribe(sub.eventType, sub.handler); err != nil {
			return fmt.Errorf("failed to subscribe %s handler: %w", sub.eventType, err)
		}
	}
	return nil
}
