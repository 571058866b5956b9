package permissions

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Permission represents an atomic capability scoped to an entity type.
// Codenames are unique within their scope.
type Permission struct {
	ID            int64
	Codename      string
	Name          string
	ContentTypeID int64
}

// UserScope is the entity type every API-visible permission applies to.
const UserScope = "users"

// Baseline is the fixed permission set seeded at schema-initialisation time,
// outside user control.
var Baseline = baselineSet("add_user", "change_user", "delete_user", "view_user")

var titleCaser = cases.Title(language.English)

// DisplayName derives the human-readable name for a codename: underscores
// become spaces and the leading "can" is title-cased, so "add_user" reads
// "Can add user".
func DisplayName(codename string) string {
	phrase := "can " + strings.ReplaceAll(codename, "_", " ")
	first, rest, _ := strings.Cut(phrase, " ")
	return titleCaser.String(first) + " " + rest
}

func baselineSet(codenames ...string) []Permission {
	perms := make([]Permission, 0, len(codenames))
	for _, codename := range codenames {
		perms = append(perms, Permission{Codename: codename, Name: DisplayName(codename)})
	}
	return perms
}
