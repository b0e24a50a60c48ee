package ports

import (
	"context"

	"github.com/gerasmt/productsbackend/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration. The role is
// never caller-supplied; the service assigns the configured default role.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is returned by Register and Login: the user plus a signed
// session token for the cookie.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService implements registration, login and session verification.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Logout revokes the given session token. Unknown or expired tokens are
	// not an error; logout is idempotent.
	Logout(ctx context.Context, token string) error
	// Verify validates a session token and resolves the embedded user.
	Verify(ctx context.Context, token string) (*domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
}
