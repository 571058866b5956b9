package rbac

import "time"

// RoleRef identifies an assignable role.
type RoleRef struct {
	ID   int64
	Name string
}

// Assignment is the many-to-many edge between a user and a role. Edges are
// append-only; the only transition is absent to present.
type Assignment struct {
	UserID    int64
	RoleID    int64
	CreatedAt time.Time
}
