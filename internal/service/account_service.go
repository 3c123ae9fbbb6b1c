package service

import (
	"context"                          // Request-scoped context
	"crypto/sha256"                    // Password pre-hash
	"encoding/base64"                  // Pre-hash encoding
	"errors"                           // Error inspection
	"fmt"                              // Error wrapping
	"strings"                          // String trimming
	"sync"                             // One-time dummy hash
	"tarot_portal/internal/domain"     // Importing domain models
	"tarot_portal/internal/repository" // Account store
	"unicode/utf8"                     // Character counting

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
)

const bcryptCost = bcrypt.DefaultCost // Work factor for stored hashes

// RegisterInput carries the submitted registration form
type RegisterInput struct {
	Name     string // Display name
	Email    string // Login identifier
	Phone    string // Phone number
	Password string // Plaintext password
}

// AccountService handles registration and credential checks
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

type accountService struct {
	users repository.UserRepository // Account store
}

// NewAccountService creates a new account service
func NewAccountService(users repository.UserRepository) AccountService {
	return &accountService{users: users}
}

// prehash turns a password of any length into 44 bytes, within bcrypt's 72-byte limit
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))                   // Fixed-size digest
	return []byte(base64.StdEncoding.EncodeToString(sum[:])) // No NUL bytes for bcrypt
}

// hashPassword returns the bcrypt hash stored for password
func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword(prehash(password), bcryptCost)
}

// checkPassword reports whether password matches the stored hash
func checkPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, prehash(password)) == nil
}

// Register validates the input, hashes the password and stores a new user.
// The email pre-check only produces the friendlier error; the store's unique
// index decides.
func (s *accountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)   // Ignore surrounding whitespace
	in.Email = strings.TrimSpace(in.Email) // Ignore surrounding whitespace
	in.Phone = strings.TrimSpace(in.Phone) // Ignore surrounding whitespace
	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Password == "" {
		return nil, ErrMissingField // Nothing reaches the store
	}
	// Enforce column sizes before touching the store
	if err := validateLengths(in); err != nil {
		return nil, err
	}

	// Look for an existing account with this email
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: check email: %v", ErrUnexpected, err)
	}

	// Hash the password before storing it
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", ErrUnexpected, err)
	}

	user := &domain.User{
		Name:     in.Name,        // Trimmed name
		Email:    in.Email,       // Trimmed email
		Phone:    in.Phone,       // Trimmed phone
		Password: string(hashed), // Never the plaintext
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost the race against a concurrent registration
			logrus.WithFields(logrus.Fields{
				"email": in.Email,    // Contested email
				"error": err.Error(), // Constraint error
			}).Warn("Registration rejected by unique constraint")
			return nil, ErrValidation
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrUnexpected, err)
	}
	return user, nil
}

// validateLengths checks each field against its column size
func validateLengths(in RegisterInput) error {
	switch {
	case utf8.RuneCountInString(in.Name) > domain.NameMaxLen:
		return fmt.Errorf("%w: name longer than %d characters", ErrValidation, domain.NameMaxLen)
	case utf8.RuneCountInString(in.Email) > domain.EmailMaxLen:
		return fmt.Errorf("%w: email longer than %d characters", ErrValidation, domain.EmailMaxLen)
	case utf8.RuneCountInString(in.Phone) > domain.PhoneMaxLen:
		return fmt.Errorf("%w: phone longer than %d characters", ErrValidation, domain.PhoneMaxLen)
	}
	return nil
}

var (
	dummyHashOnce sync.Once // Guards dummyHash
	dummyHash     []byte    // Hash compared against for unknown emails
)

// timingDummyHash is compared against when the email is unknown so both
// failure paths cost one bcrypt comparison
func timingDummyHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = hashPassword("no-such-user")
	})
	return dummyHash
}

// Authenticate returns the user whose stored hash matches password
func (s *accountService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email) // Match the trimmed stored email
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	// Find the user by email
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logrus.WithField("error", err.Error()).Error("Login lookup failed")
		}
		_ = checkPassword(timingDummyHash(), password) // Same cost as a wrong password
		return nil, ErrInvalidCredentials
	}

	// Compare the password with the stored hash
	if !checkPassword([]byte(user.Password), password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
