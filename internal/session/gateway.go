package session

import (
	"context"                          // Request-scoped context
	"errors"                           // Error values
	"fmt"                              // Error wrapping
	"tarot_portal/internal/domain"     // Importing domain models
	"tarot_portal/internal/repository" // Account store
	"tarot_portal/internal/utils"      // Session JWT helpers
	"time"                             // Session lifetime

	"github.com/golang-jwt/jwt/v5" // JWT parser options
	"github.com/google/uuid"       // Session ids
	"github.com/sirupsen/logrus"   // Logging library
)

var (
	// ErrNoSession is returned when a token does not map to a live session.
	// Only this error means the client's cookie is worthless.
	ErrNoSession = errors.New("no active session")
	// ErrUnavailable is returned when the session store or account store
	// cannot answer. The session may still be valid.
	ErrUnavailable = errors.New("session backend unavailable")
)

// storeError wraps an infrastructure failure so callers can tell it from ErrNoSession
func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

// Gateway issues, resolves and revokes login sessions.
//
// A token is a signed JWT whose jti names a record in the Store. Both must be
// valid for Resolve to succeed, so deleting the record revokes the token even
// though the JWT itself has not expired.
type Gateway struct {
	store  Store                     // Server-side session records
	users  repository.UserRepository // Account store
	secret string                    // JWT signing key
	ttl    time.Duration             // Session lifetime
}

// NewGateway creates a session gateway
func NewGateway(store Store, users repository.UserRepository, secret string, ttl time.Duration) *Gateway {
	return &Gateway{store: store, users: users, secret: secret, ttl: ttl}
}

// TTL is how long an established session stays valid
func (g *Gateway) TTL() time.Duration {
	return g.ttl
}

// Establish starts a session for user and returns the token to hand to the client
func (g *Gateway) Establish(ctx context.Context, user *domain.User) (string, error) {
	if user == nil || user.ID == 0 {
		return "", errors.New("establish session: user has no id")
	}
	id := uuid.NewString()                                       // Opaque session id
	rec := Record{UserID: user.ID, CreatedAt: time.Now().Unix()} // Server-side record
	if err := g.store.Save(ctx, id, rec, g.ttl); err != nil {
		return "", err
	}
	token, err := utils.GenerateSessionJWT(id, user.ID, g.secret, g.ttl)
	if err != nil {
		_ = g.store.Delete(ctx, id) // Do not leave an unreachable record behind
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Resolve returns the user a token belongs to. It returns ErrNoSession when the
// token is invalid, revoked or expired, and ErrUnavailable when a backend failed.
func (g *Gateway) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	claims, err := utils.ParseSessionJWT(token, g.secret)
	if err != nil {
		return nil, ErrNoSession // Forged, malformed or expired
	}
	rec, err := g.store.Load(ctx, claims.ID)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			logrus.WithField("error", err.Error()).Error("Session lookup failed")
		}
		return nil, err
	}
	if rec.UserID != claims.UserID {
		return nil, ErrNoSession // Token and record disagree
	}
	user, err := g.users.FindByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSession // User no longer exists
		}
		logrus.WithFields(logrus.Fields{
			"user_id": rec.UserID,  // Session owner
			"error":   err.Error(), // Error message
		}).Error("Session user lookup failed")
		return nil, storeError("find user", err)
	}
	return user, nil
}

// Terminate revokes the session behind token. Unknown or expired tokens are a no-op.
func (g *Gateway) Terminate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	// Expired tokens still name a record worth deleting
	claims, err := utils.ParseSessionJWT(token, g.secret, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	return g.store.Delete(ctx, claims.ID)
}
