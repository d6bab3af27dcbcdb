package domain

// StoreContext selects which backing store a principal lookup targets. The
// caller always chooses the context explicitly; it is never inferred from
// token content.
type StoreContext string

const (
	StoreContextUser  StoreContext = "user"
	StoreContextAdmin StoreContext = "admin"
)

// Role tags assigned at registration time.
const (
	RoleUser  = "1"
	RoleAdmin = "admin"
)

// Principal is an authenticated identity. Ordinary users and administrators
// live in disjoint stores with independent id spaces.
type Principal struct {
	ID             int64
	Username       string
	Email          string
	Role           string
	HashedPassword string
	IsActive       bool
}
