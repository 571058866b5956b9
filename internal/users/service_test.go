package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aegis-iam/aegis/internal/shared"
)

type recordingRepo struct {
	lastMethod string
	lastArg    string
}

func (r *recordingRepo) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	r.lastMethod = "Create"
	return &User{ID: 1, Username: username, Email: email, PasswordHash: passwordHash, IsActive: true}, nil
}

func (r *recordingRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	r.lastMethod = "GetByID"
	return nil, shared.ErrNotFound
}

func (r *recordingRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.lastMethod, r.lastArg = "FindByEmail", email
	return &User{ID: 1, Email: email}, nil
}

func (r *recordingRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	r.lastMethod, r.lastArg = "FindByUsername", username
	return &User{ID: 1, Username: username}, nil
}

func TestFindByIdentifierDispatch(t *testing.T) {
	cases := []struct {
		identifier string
		method     string
	}{
		{"marley@example.com", "FindByEmail"},
		{"marley", "FindByUsername"},
		{"marley@", "FindByUsername"},
		{"@example.com", "FindByUsername"},
		{"marley@localhost", "FindByUsername"},
		{"a b@example.com", "FindByUsername"},
		{"first.last@sub.example.co", "FindByEmail"},
	}
	for _, tc := range cases {
		t.Run(tc.identifier, func(t *testing.T) {
			repo := &recordingRepo{}
			svc := NewService(repo)

			_, err := svc.FindByIdentifier(context.Background(), tc.identifier)
			require.NoError(t, err)
			require.Equal(t, tc.method, repo.lastMethod)
			require.Equal(t, tc.identifier, repo.lastArg)
		})
	}
}
