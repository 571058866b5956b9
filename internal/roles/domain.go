package roles

import "time"

// Role is a named group of permissions. Names are globally unique; a role is
// created bound to exactly one seed permission.
type Role struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
