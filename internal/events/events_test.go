package events

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishDeliversToSubscribedHandlers(t *testing.T) {
	bus := NewEventBus(DefaultEventBusConfig(), zap.NewNop())

	var received []string
	handler := NewEventHandlerFunc("test.recorder", func(ctx context.Context, event Event) error {
		received = append(received, event.GetEventID())
		return nil
	})
	require.NoError(t, bus.Subscribe(TypePostLiked, handler))

	event := NewPostLikedEvent(10, 5, 9, "Hello World")
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Len(t, received, 1)
	assert.Equal(t, event.GetEventID(), received[0])

	// Events of other types do not reach this handler.
	require.NoError(t, bus.Publish(context.Background(), NewPostPublishedEvent(10, 5, "Hello World")))
	assert.Len(t, received, 1)
}

func TestPublishNilEvent(t *testing.T) {
	bus := NewEventBus(DefaultEventBusConfig(), zap.NewNop())
	assert.Error(t, bus.Publish(context.Background(), nil))
	assert.Error(t, bus.PublishAsync(context.Background(), nil))
}

func TestPublishReportsHandlerFailure(t *testing.T) {
	bus := NewEventBus(DefaultEventBusConfig(), zap.NewNop())

	require.NoError(t, bus.Subscribe(TypePostLiked, NewEventHandlerFunc("test.failing",
		func(ctx context.Context, event Event) error {
			return errors.New("handler broke")
		})))

	err := bus.Publish(context.Background(), NewPostLikedEvent(10, 5, 9, "Hello World"))
	assert.Error(t, err)
}

func TestPublishAsyncProcessesThroughWorkers(t *testing.T) {
	bus := NewEventBus(&EventBusConfig{
		BufferSize:     16,
		WorkerCount:    2,
		HandlerTimeout: time.Second,
	}, zap.NewNop())

	var mu sync.Mutex
	var got []int64
	done := make(chan struct{})

	require.NoError(t, bus.Subscribe(TypeCommentCreated, NewTypedEventHandler(
		"test.comment", func(ctx context.Context, event *CommentCreatedEvent) error {
			mu.Lock()
			got = append(got, event.CommentID)
			if len(got) == 3 {
				close(done)
			}
			mu.Unlock()
			return nil
		})))

	require.NoError(t, bus.Start(context.Background()))
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		bus.Stop(stopCtx)
	}()

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, bus.PublishAsync(context.Background(),
			NewCommentCreatedEvent(i, 10, 5, 9, "Hello World", "hi")))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("events were not processed in time")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []int64{1, 2, 3}, got)
}

func TestPublishAsyncFailsFastWhenQueueFull(t *testing.T) {
	// Workers never started, so the queue only fills.
	bus := NewEventBus(&EventBusConfig{
		BufferSize:     1,
		WorkerCount:    1,
		HandlerTimeout: time.Second,
	}, zap.NewNop())

	require.NoError(t, bus.PublishAsync(context.Background(), NewPostLikedEvent(1, 5, 9, "a")))
	err := bus.PublishAsync(context.Background(), NewPostLikedEvent(2, 5, 9, "b"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "full")
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus(DefaultEventBusConfig(), zap.NewNop())

	calls := 0
	handler := NewEventHandlerFunc("test.once", func(ctx context.Context, event Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Subscribe(TypePostFeatured, handler))
	require.NoError(t, bus.Publish(context.Background(), NewPostFeaturedEvent(10, 5, "Hello World")))
	require.NoError(t, bus.Unsubscribe(TypePostFeatured, handler))
	require.NoError(t, bus.Publish(context.Background(), NewPostFeaturedEvent(10, 5, "Hello World")))

	assert.Equal(t, 1, calls)
	assert.Error(t, bus.Unsubscribe(TypePostFeatured, handler), "already removed")
}

func TestTypedHandlerRejectsMismatchedEvent(t *testing.T) {
	handler := NewTypedEventHandler("test.typed",
		func(ctx context.Context, event *PostLikedEvent) error { return nil })

	err := handler.Handle(context.Background(), NewPostPublishedEvent(10, 5, "Hello World"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	bus := NewEventBus(DefaultEventBusConfig(), zap.NewNop())

	require.NoError(t, bus.Subscribe(TypePostLiked, NewEventHandlerFunc("test.panicking",
		func(ctx context.Context, event Event) error {
			panic("boom")
		})))

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), NewPostLikedEvent(10, 5, 9, "Hello World"))
	})
}

func TestStatsAndHealth(t *testing.T) {
	bus := NewEventBus(DefaultEventBusConfig(), zap.NewNop())
	require.NoError(t, bus.Health())

	require.NoError(t, bus.Subscribe(TypePostLiked, NewEventHandlerFunc("test.noop",
		func(ctx context.Context, event Event) error { return nil })))
	require.NoError(t, bus.Publish(context.Background(), NewPostLikedEvent(10, 5, 9, "a")))

	stats := bus.Stats()
	assert.Equal(t, int64(1), stats.EventsPublished)
	assert.Equal(t, 1, stats.HandlersCount)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(stopCtx))
	assert.Error(t, bus.Health(), "stopped bus is unhealthy")
}

func TestStatsCountersSurviveConcurrentPublishes(t *testing.T) {
	bus := NewEventBus(DefaultEventBusConfig(), zap.NewNop())

	require.NoError(t, bus.Subscribe(TypePostLiked, NewEventHandlerFunc("test.noop",
		func(ctx context.Context, event Event) error { return nil })))

	const publishers = 20
	const perPublisher = 25

	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perPublisher; j++ {
				_ = bus.Publish(context.Background(), NewPostLikedEvent(1, 5, 9, "a"))
			}
		}()
	}
	wg.Wait()

	stats := bus.Stats()
	assert.Equal(t, int64(publishers*perPublisher), stats.EventsPublished)
	assert.Equal(t, int64(0), stats.EventsFailed)
}

func TestGenerateEventID(t *testing.T) {
	a := GenerateEventID()
	b := GenerateEventID()
	assert.True(t, strings.HasPrefix(a, "evt_"))
	assert.NotEqual(t, a, b)
}

func TestDomainEventFactories(t *testing.T) {
	liked := NewPostLikedEvent(10, 5, 9, "Hello World")
	assert.Equal(t, TypePostLiked, liked.GetEventType())
	require.NotNil(t, liked.GetUserID())
	assert.Equal(t, int64(5), *liked.GetUserID(), "addressed to the post owner")

	reply := NewCommentRepliedEvent(33, 10, 5, 9, "Hello World", "hi")
	assert.Equal(t, TypeCommentReplied, reply.GetEventType())
	require.NotNil(t, reply.GetUserID())
	assert.Equal(t, int64(5), *reply.GetUserID(), "addressed to the parent comment author")

	moderated := NewPostModeratedEvent(10, 5, "Hello World", false, "editor_jane", "duplicate")
	assert.Equal(t, TypePostModerated, moderated.GetEventType())
	assert.False(t, moderated.Approved)
	assert.Equal(t, "duplicate", moderated.Reason)
}
