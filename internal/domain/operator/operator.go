package operator

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/id"
)

var (
	ErrOperatorNotFound = errors.New("operator not found")
	ErrEmailExists      = errors.New("operator email already registered")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrOperatorLocked   = errors.New("operator temporarily locked")
)

const (
	maxFailedLogins = 5
	lockDuration    = 30 * time.Minute
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// Operator is a back-office staff account.
type Operator struct {
	id                  uint
	sid                 string
	email               string
	name                string
	passwordHash        string
	active              bool
	failedLoginAttempts int
	lockedUntil         *time.Time
	lastLoginAt         *time.Time
	createdAt           time.Time
	updatedAt           time.Time
}

func NewOperator(email, name, password string, hasher PasswordHasher) (*Operator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email: %s", email)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := biztime.NowUTC()
	return &Operator{
		sid:          id.NewOperatorID(),
		email:        email,
		name:         strings.TrimSpace(name),
		passwordHash: hash,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

type ReconstructParams struct {
	ID                  uint
	SID                 string
	Email               string
	Name                string
	PasswordHash        string
	Active              bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func ReconstructOperatorWithParams(p ReconstructParams) *Operator {
	return &Operator{
		id:                  p.ID,
		sid:                 p.SID,
		email:               p.Email,
		name:                p.Name,
		passwordHash:        p.PasswordHash,
		active:              p.Active,
		failedLoginAttempts: p.FailedLoginAttempts,
		lockedUntil:         p.LockedUntil,
		lastLoginAt:         p.LastLoginAt,
		createdAt:           p.CreatedAt,
		updatedAt:           p.UpdatedAt,
	}
}

func (o *Operator) ID() uint                 { return o.id }
func (o *Operator) SID() string              { return o.sid }
func (o *Operator) Email() string            { return o.email }
func (o *Operator) Name() string             { return o.name }
func (o *Operator) PasswordHash() string     { return o.passwordHash }
func (o *Operator) IsActive() bool           { return o.active }
func (o *Operator) FailedLoginAttempts() int { return o.failedLoginAttempts }
func (o *Operator) LockedUntil() *time.Time  { return o.lockedUntil }
func (o *Operator) LastLoginAt() *time.Time  { return o.lastLoginAt }
func (o *Operator) CreatedAt() time.Time     { return o.createdAt }
func (o *Operator) UpdatedAt() time.Time     { return o.updatedAt }

func (o *Operator) SetID(newID uint) {
	o.id = newID
}

func (o *Operator) IsLocked(now time.Time) bool {
	return o.lockedUntil != nil && now.Before(*o.lockedUntil)
}

// Authenticate checks the password, counting failures towards a temporary lock.
func (o *Operator) Authenticate(password string, hasher PasswordHasher, now time.Time) error {
	if o.IsLocked(now) {
		return ErrOperatorLocked
	}
	if err := hasher.Verify(password, o.passwordHash); err != nil {
		o.failedLoginAttempts++
		if o.failedLoginAttempts >= maxFailedLogins {
			until := now.Add(lockDuration)
			o.lockedUntil = &until
		}
		o.updatedAt = now
		return ErrInvalidPassword
	}

	o.failedLoginAttempts = 0
	o.lockedUntil = nil
	o.lastLoginAt = &now
	o.updatedAt = now
	return nil
}

func (o *Operator) Deactivate() {
	o.active = false
	o.updatedAt = biztime.NowUTC()
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > 72 {
		return fmt.Errorf("password must not exceed 72 characters (bcrypt limitation)")
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	if !hasLetter || !hasNumber {
		return fmt.Errorf("password must contain letters and numbers")
	}
	return nil
}

type Repository interface {
	Create(ctx context.Context, o *Operator) error
	Update(ctx context.Context, o *Operator) error
	GetByEmail(ctx context.Context, email string) (*Operator, error)
	GetBySID(ctx context.Context, sid string) (*Operator, error)
}
