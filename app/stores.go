package app

import (
	"context"

	"pulsefeed/domain"
)

// LikeStore persists like-association rows keyed by (subject, actor).
type LikeStore interface {
	InsertLike(ctx context.Context, subject domain.Subject, actorID string) error
	DeleteLike(ctx context.Context, subject domain.Subject, actorID string) error
}

// CounterStore adjusts the denormalized aggregate counters of a subject.
type CounterStore interface {
	IncrementLikeCount(ctx context.Context, subject domain.Subject) error
	DecrementLikeCount(ctx context.Context, subject domain.Subject) error
	IncrementViewCount(ctx context.Context, subject domain.Subject) error
}
