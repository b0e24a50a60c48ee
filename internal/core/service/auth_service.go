package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gerasmt/productsbackend/internal/core/domain"
	"github.com/gerasmt/productsbackend/internal/core/ports"
)

// TokenRevoker abstracts the logout denylist (Redis). Revoked token ids stay
// listed until the token would have expired anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthService implements registration, login and session verification.
type AuthService struct {
	users       ports.UserRepository
	revoker     TokenRevoker
	jwtSecret   string
	tokenTTL    time.Duration
	defaultRole string
	logger      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, revoker TokenRevoker, jwtSecret, defaultRole string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:       users,
		revoker:     revoker,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		defaultRole: defaultRole,
		logger:      logger,
	}
}

// Register creates a new user with the configured default role and returns a
// signed session token alongside the stored user.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.KnownRole(s.defaultRole) {
		return nil, domain.ErrRoleNotConfigured
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         s.defaultRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return &ports.AuthResult{User: created, Token: token}, nil
}

// Login verifies the credentials and returns a fresh session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{User: user, Token: token}, nil
}

// Logout revokes the token id until its natural expiry. Tokens that fail to
// parse or have already expired need no revocation.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil
	}

	tokenID, _ := claims["jti"].(string)
	exp, expErr := claims.GetExpirationTime()
	if tokenID == "" || expErr != nil || exp == nil {
		return nil
	}

	remaining := time.Until(exp.Time)
	if remaining <= 0 {
		return nil
	}

	if err := s.revoker.Revoke(ctx, tokenID, remaining); err != nil {
		s.logger.Warn().Err(err).Msg("failed to revoke session token")
		return err
	}
	return nil
}

// Verify validates the token signature and expiry, rejects revoked sessions
// and resolves the embedded user id against the store.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	if tokenID, ok := claims["jti"].(string); ok && tokenID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, tokenID)
		// The denylist degrades open: an unreachable Redis must not lock
		// every user out.
		if err != nil {
			s.logger.Warn().Err(err).Msg("revocation check failed, accepting token")
		} else if revoked {
			return nil, domain.ErrUnauthorized
		}
	}

	userID, _ := claims["id"].(string)
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	return s.users.FindByID(ctx, userID)
}

// Profile returns the user record for an already-authenticated caller.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"id":  user.ID,
		"jti": uuid.NewString(),
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) parseToken(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
