package domain

import "errors"

var (
	// ErrUnauthenticated indicates there is no signed-in actor.
	ErrUnauthenticated = errors.New("not signed in")

	// ErrRemoteRejected indicates the backend refused the mutation,
	// e.g. a duplicate like insert hitting a unique constraint.
	ErrRemoteRejected = errors.New("rejected by server")

	// ErrNetwork indicates a transport-level failure.
	ErrNetwork = errors.New("network failure")

	// ErrEmptyComment indicates the user submitted an empty comment.
	ErrEmptyComment = errors.New("comment cannot be empty")
)
