package client

import (
	"github.com/go-mclib/botclient/chunkbatch"
	"github.com/go-mclib/botclient/ecs"
)

// componentOf type-switches on T to pick out the one field of Entity that
// matches, emulating spec §6's generic component<T> accessor over the
// fixed component-set entity ecs.Entity is (rather than a dynamic
// type->value map, which an entity with a known, small component set has
// no need for).
func componentOf[T any](e *ecs.Entity) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case ecs.Position:
		return any(e.Position).(T), true
	case ecs.Velocity:
		return any(e.Velocity).(T), true
	case ecs.Rotation:
		return any(e.Rotation).(T), true
	case ecs.PlayerMetadata:
		return any(e.Metadata).(T), true
	case ecs.ScratchState:
		return any(e.Scratch).(T), true
	default:
		return zero, false
	}
}

// Component returns entity id's component of type T from the client's
// world (spec §6's component<T>()). The bool is false if the entity
// doesn't exist or doesn't carry a T.
func Component[T any](c *Client, id ecs.EntityID) (T, bool) {
	e, ok := c.world.Get(id)
	if !ok {
		var zero T
		return zero, false
	}
	return componentOf[T](e)
}

// GetComponent is an alias for Component kept for spec §6's get_component
// naming; Component already returns the (value, ok) pair get_component
// implies.
func GetComponent[T any](c *Client, id ecs.EntityID) (T, bool) {
	return Component[T](c, id)
}

// MapComponent reads entity id's component of type T and applies fn,
// returning the zero R if the component is absent (spec §6's
// map_component<T,R>).
func MapComponent[T, R any](c *Client, id ecs.EntityID, fn func(T) R) (R, bool) {
	v, ok := Component[T](c, id)
	if !ok {
		var zero R
		return zero, false
	}
	return fn(v), true
}

// resourceOf type-switches on R to pick out the one client-wide singleton
// that matches, emulating spec §6's resource<T>() over the client's fixed
// resource set (World, PartialInstance, chunk-batch estimator, TabList).
func resourceOf[R any](c *Client) (R, bool) {
	var zero R
	switch any(zero).(type) {
	case *ecs.World:
		return any(c.world).(R), true
	case *ecs.PartialInstance:
		return any(c.instance).(R), true
	case *chunkbatch.Info:
		return any(c.batch).(R), true
	case *TabList:
		return any(c.tabList).(R), true
	default:
		return zero, false
	}
}

// Resource returns the client-wide singleton of type R (spec §6's
// resource<T>()).
func Resource[R any](c *Client) (R, bool) {
	return resourceOf[R](c)
}
