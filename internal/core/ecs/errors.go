package ecs

import "errors"

// Sentinel errors returned by entity, context, and component operations.
// Call sites wrap them with operation context; tests match with errors.Is.
var (
	// ErrEntityNotEnabled is returned when mutating an entity that is not
	// yet activated or already destroyed.
	ErrEntityNotEnabled = errors.New("entity not enabled")

	// ErrDuplicateComponent is returned when adding a component type that
	// already exists on the entity.
	ErrDuplicateComponent = errors.New("duplicate component")

	// ErrMissingComponent is returned when getting or removing a component
	// type that does not exist on the entity.
	ErrMissingComponent = errors.New("missing component")

	// ErrMissingEntity is returned when destroying an entity the context
	// does not currently track as active.
	ErrMissingEntity = errors.New("missing entity")

	// ErrComponentConstruction is returned for wrong arity or types of
	// constructor values, or a failed validation inside a component
	// constructor.
	ErrComponentConstruction = errors.New("component construction")

	// ErrGroupSingleEntity is returned by Group.Single when the group
	// holds more than one entity.
	ErrGroupSingleEntity = errors.New("group has more than one entity")
)
