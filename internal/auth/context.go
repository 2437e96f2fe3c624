package auth

import (
	"context"
	"errors"
)

var ErrUnauthenticated = errors.New("no authenticated actor")

// Actor is the authenticated user a request acts for.
type Actor struct {
	ID    string
	Email string
}

type actorKey struct{}

func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func FromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(*Actor)
	return actor, ok && actor != nil && actor.ID != ""
}

// ActorResolver resolves the current actor. Workflows call it as their first
// step and stop when it fails.
type ActorResolver interface {
	Resolve(ctx context.Context) (*Actor, error)
}

// ContextResolver reads the actor the auth middleware put on the context.
type ContextResolver struct{}

func (ContextResolver) Resolve(ctx context.Context) (*Actor, error) {
	actor, ok := FromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return actor, nil
}
