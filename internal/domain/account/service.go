package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/medrec/medrec/internal/domain/patient"
	"github.com/medrec/medrec/internal/platform/auth"
)

var (
	// ErrNotFound is returned when no account exists for the given email.
	ErrNotFound = errors.New("account not found")
	// ErrEmailTaken is returned when registering an already used email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for a bad email/password pair. The
	// error is the same for both cases so a caller cannot probe for
	// registered emails.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const minPasswordLength = 6

// PatientDirectory resolves external patient UIDs. Satisfied by
// *patient.Service.
type PatientDirectory interface {
	FindByUID(ctx context.Context, uid string) (*patient.Patient, error)
}

type Service struct {
	accounts Repository
	patients PatientDirectory
	tokens   *auth.TokenIssuer
}

func NewService(accounts Repository, patients PatientDirectory, tokens *auth.TokenIssuer) *Service {
	return &Service{accounts: accounts, patients: patients, tokens: tokens}
}

// Register creates a staff account with role admin. The password is stored
// as a bcrypt hash.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "admin",
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Login verifies the email/password pair and returns a signed token for the
// account.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(a.ID.String(), []string{a.Role}, "")
	if err != nil {
		return "", nil, err
	}
	return token, a, nil
}

// LoginPatient issues a read-only patient-portal token. When uid is given
// the patient must exist and the token is bound to that record; an empty
// uid yields an unbound portal token whose holder still has to verify a UID
// before reading anything.
func (s *Service) LoginPatient(ctx context.Context, uid string) (string, error) {
	if uid != "" {
		if _, err := s.patients.FindByUID(ctx, uid); err != nil {
			return "", err
		}
	}
	return s.tokens.Issue("patient-portal", []string{"user"}, uid)
}
