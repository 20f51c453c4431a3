package ecs

import (
	"github.com/phanxgames/balloon"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// LetterEventType is the Donburi event type for balloon letter lifecycle
// events. Subscribe to this in your ECS systems to react to letters
// spawning, settling, decaying, and being removed.
var LetterEventType = events.NewEventType[balloon.LetterEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Lifecycle events are published to LetterEventType and can be consumed
// with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) balloon.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitLetterEvent(event balloon.LetterEvent) {
	LetterEventType.Publish(s.world, event)
}
