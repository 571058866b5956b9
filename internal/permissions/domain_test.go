package permissions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Can add user", DisplayName("add_user"))
	require.Equal(t, "Can change user", DisplayName("change_user"))
	require.Equal(t, "Can ban user", DisplayName("ban_user"))
	require.Equal(t, "Can export audit log", DisplayName("export_audit_log"))
}

func TestBaselineNames(t *testing.T) {
	require.Len(t, Baseline, 4)
	byCodename := make(map[string]string, len(Baseline))
	for _, p := range Baseline {
		byCodename[p.Codename] = p.Name
	}
	require.Equal(t, map[string]string{
		"add_user":    "Can add user",
		"change_user": "Can change user",
		"delete_user": "Can delete user",
		"view_user":   "Can view user",
	}, byCodename)
}
