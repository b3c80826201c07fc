package constants

// Session / context keys
const (
	ContextKeyUserID  = "user_id"
	SessionCookieName = "pge_session"
)

// Well-known reference data. Role and state rows live in the database and are
// looked up at runtime; only the seed defaults are fixed here.
const (
	DefaultIncidentStateID = 1 // "nueva"

	RoleNameCitizen = "vecino"
	RoleNameAdmin   = "administrador"
)

// Result caps for the map-view (take-only) incident queries.
const (
	DefaultBBoxLimit = 500
	DefaultNearLimit = 200
)

// Page-based pagination bounds.
const (
	MinPage         = 1
	DefaultPageSize = 100
	MaxPageSize     = 500
)

const MinPasswordLength = 8
