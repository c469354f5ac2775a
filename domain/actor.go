package domain

// Actor is the authenticated user performing like/view interactions.
type Actor struct {
	ID       string
	Username string
}
