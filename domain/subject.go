package domain

// SubjectKind distinguishes the two likeable/viewable entity types.
type SubjectKind int

const (
	KindPost SubjectKind = iota
	KindComment
)

// String returns the lowercase kind name used in logs and API paths.
func (k SubjectKind) String() string {
	if k == KindComment {
		return "comment"
	}
	return "post"
}

// Subject identifies a likeable/viewable entity (a post or a comment).
type Subject struct {
	ID   string
	Kind SubjectKind
}
