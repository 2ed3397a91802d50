package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcaster_DeliversToAllSubscribers(t *testing.T) {
	b := NewBroadcaster()

	var got1, got2 []EventType
	b.Subscribe(func(ev Event) { got1 = append(got1, ev.Type) })
	b.Subscribe(func(ev Event) { got2 = append(got2, ev.Type) })

	b.Publish(Event{Type: EventSignedIn})
	b.Publish(Event{Type: EventSignedOut})

	assert.Equal(t, []EventType{EventSignedIn, EventSignedOut}, got1)
	assert.Equal(t, []EventType{EventSignedIn, EventSignedOut}, got2)
}

func TestBroadcaster_UnsubscribeIsScoped(t *testing.T) {
	b := NewBroadcaster()

	var count int
	unsubscribe := b.Subscribe(func(Event) { count++ })

	b.Publish(Event{Type: EventSignedIn})
	unsubscribe()
	b.Publish(Event{Type: EventSignedIn})

	assert.Equal(t, 1, count)
}

func TestBroadcaster_PublishWithNoSubscribers(t *testing.T) {
	b := NewBroadcaster()
	// Must not panic
	b.Publish(Event{Type: EventSignedOut})
}
