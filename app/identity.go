package app

import (
	"context"

	"pulsefeed/domain"
)

// IdentityService resolves the current authenticated actor.
type IdentityService interface {
	// CurrentActor returns the signed-in actor, or
	// domain.ErrUnauthenticated when there is none.
	CurrentActor(ctx context.Context) (domain.Actor, error)
}
