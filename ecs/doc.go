// Package ecs provides ECS adapters for balloon's letter lifecycle events.
//
// The primary adapter is [NewDonburiStore], which bridges letter lifecycle
// events (spawned, settled, decaying, removed) into a [Donburi] world as
// typed events. Subscribe to [LetterEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	stage.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
