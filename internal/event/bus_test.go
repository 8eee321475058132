package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct{ N int }

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"storysource.region.edited", "storysource.region.edited", true},
		{"storysource.region.edited", "storysource.region.*", true},
		{"storysource.region.edited", "storysource.*", false},
		{"storysource.region.edited", "storysource.**", true},
		{"storysource.region.edited", "**", true},
		{"storysource.source.replaced", "storysource.region.*", false},
		{"storysource", "storysource.**", true},
		{"storysource", "storysource.*", false},
		{"storysource.region", "storysource", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.topic)+"~"+string(tt.pattern), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.topic.Matches(tt.pattern))
		})
	}
}

func TestTopicIsValid(t *testing.T) {
	assert.True(t, Topic("a.b").IsValid())
	assert.True(t, Topic("a").IsValid())
	assert.False(t, Topic("").IsValid())
	assert.False(t, Topic("a..b").IsValid())
	assert.False(t, Topic(".a").IsValid())
}

func TestNewEvent(t *testing.T) {
	e := NewEvent[ping]("test.ping", ping{N: 1}, "tests")
	assert.Equal(t, Topic("test.ping"), e.EventTopic())
	assert.Len(t, e.Metadata.ID, 36)
	assert.Equal(t, "tests", e.Metadata.Source)
	assert.False(t, e.Metadata.Timestamp.IsZero())

	other := NewEvent[ping]("test.ping", ping{N: 2}, "tests")
	assert.NotEqual(t, e.Metadata.ID, other.Metadata.ID)

	caused := other.WithCausation(e.Metadata.ID)
	assert.Equal(t, e.Metadata.ID, caused.Metadata.CausationID)
	assert.Empty(t, other.Metadata.CausationID)
}

func TestBusPublishSubscribe(t *testing.T) {
	ctx := context.Background()
	b := NewBus()

	var got []int
	sub, err := b.Subscribe("test.*", AsHandler(func(_ context.Context, e Event[ping]) error {
		got = append(got, e.Payload.N)
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, NewEvent("test.ping", ping{N: 1}, "t")))
	require.NoError(t, b.Publish(ctx, NewEvent("test.ping", ping{N: 2}, "t")))
	require.NoError(t, b.Publish(ctx, NewEvent("other.ping", ping{N: 3}, "t")))
	require.NoError(t, b.Publish(ctx, NewEvent("test.string", "ignored", "t")))
	assert.Equal(t, []int{1, 2}, got)

	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, b.Publish(ctx, NewEvent("test.ping", ping{N: 4}, "t")))
	assert.Equal(t, []int{1, 2}, got)
	assert.ErrorIs(t, b.Unsubscribe(sub), ErrSubscriptionNotFound)

	stats := b.Stats()
	assert.Equal(t, uint64(5), stats.Published)
	assert.Equal(t, 0, stats.Subscribers)
}

func TestBusDeliveryOrder(t *testing.T) {
	b := NewBus()
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		_, err := b.SubscribeFunc("order.test", func(context.Context, any) error {
			order = append(order, name)
			return nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, b.Publish(context.Background(), NewEvent("order.test", 0, "t")))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestBusHandlerFailures(t *testing.T) {
	b := NewBus()
	boom := errors.New("boom")
	delivered := false

	_, err := b.SubscribeFunc("fail.test", func(context.Context, any) error { return boom })
	require.NoError(t, err)
	_, err = b.SubscribeFunc("fail.test", func(context.Context, any) error { panic("kaboom") })
	require.NoError(t, err)
	_, err = b.SubscribeFunc("fail.test", func(context.Context, any) error {
		delivered = true
		return nil
	})
	require.NoError(t, err)

	err = b.Publish(context.Background(), NewEvent("fail.test", 0, "t"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrHandlerPanic)
	assert.True(t, delivered, "later handlers still run")

	var de *DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, Topic("fail.test"), de.Topic)
	assert.Equal(t, boom, de.Err)
	assert.Contains(t, err.Error(), "panic: kaboom")

	stats := b.Stats()
	assert.Equal(t, uint64(2), stats.Failed)
	assert.Equal(t, uint64(3), stats.Delivered)
}

func TestBusReentrantPublish(t *testing.T) {
	ctx := context.Background()
	b := NewBus()

	var echoed bool
	_, err := b.SubscribeFunc("outer.test", func(ctx context.Context, _ any) error {
		return b.Publish(ctx, NewEvent("inner.test", 0, "t"))
	})
	require.NoError(t, err)
	_, err = b.SubscribeFunc("inner.test", func(context.Context, any) error {
		echoed = true
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, NewEvent("outer.test", 0, "t")))
	assert.True(t, echoed)
}

func TestBusInvalidInput(t *testing.T) {
	b := NewBus()

	_, err := b.Subscribe("x", nil)
	assert.ErrorIs(t, err, ErrNilHandler)

	_, err = b.SubscribeFunc("", func(context.Context, any) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidTopic)

	assert.ErrorIs(t, b.Publish(context.Background(), "not an event"), ErrInvalidEvent)
	assert.ErrorIs(t, b.Unsubscribe(nil), ErrSubscriptionNotFound)
}
