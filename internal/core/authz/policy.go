// Package authz holds the acting principal of a request and the pure
// permission checks that gate write operations. Enforcement (redirect, 404)
// belongs to the caller.
package authz

// Principal is the actor behind a request. The zero value is an anonymous visitor.
type Principal struct {
	Username string
	UserID   int64
	IsAdmin  bool
}

// Anonymous is the principal of an unauthenticated request.
var Anonymous = Principal{}

// NewPrincipal builds an authenticated principal.
func NewPrincipal(userID int64, username string, isAdmin bool) Principal {
	return Principal{UserID: userID, Username: username, IsAdmin: isAdmin}
}

// IsAuthenticated reports whether the principal is a logged-in user.
func (p Principal) IsAuthenticated() bool {
	return p.UserID > 0
}

// Is reports whether the principal is the user with the given ID.
func (p Principal) Is(userID int64) bool {
	return p.IsAuthenticated() && p.UserID == userID
}

// Authored is implemented by resources that have exactly one author.
type Authored interface {
	AuthoredBy() int64
}

// CanCreate reports whether the principal may create posts and comments.
func CanCreate(p Principal) bool {
	return p.IsAuthenticated()
}

// CanEdit reports whether the principal may modify the resource: only its author can.
func CanEdit(p Principal, resource Authored) bool {
	if resource == nil {
		return false
	}
	return p.Is(resource.AuthoredBy())
}

// CanDelete allows the author and administrators.
func CanDelete(p Principal, resource Authored) bool {
	if resource == nil || !p.IsAuthenticated() {
		return false
	}
	return p.IsAdmin || CanEdit(p, resource)
}

// CanFollow reports whether the principal may follow the target user.
// Following yourself is never allowed.
func CanFollow(p Principal, targetUserID int64) bool {
	return p.IsAuthenticated() && p.UserID != targetUserID
}
