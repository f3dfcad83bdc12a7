// Package policy decides what an authenticated principal may do with a post.
package policy

const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Principal is the authenticated identity attached to a request. It is
// threaded explicitly through every call; there is no ambient current user.
type Principal struct {
	ID    string
	Email string
	Role  string
}

// CanModify reports whether p may update or delete a post owned by ownerID.
// Admins may modify anything; everyone else only their own posts. Callers
// must resolve existence first: a missing post is 404 before this runs.
func CanModify(p Principal, ownerID string) bool {
	return p.Role == RoleAdmin || p.ID == ownerID
}

// CanCreate reports whether a role may create posts. Creation has no
// ownership check since the new post has no prior owner.
func CanCreate(role string) bool {
	return role == RoleTeacher || role == RoleAdmin
}
