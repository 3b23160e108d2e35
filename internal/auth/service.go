package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/internal/users"
	pkgAuth "github.com/fitcoachhq/fitcoach-backend/pkg/auth"
	"github.com/fitcoachhq/fitcoach-backend/pkg/config"
	"github.com/fitcoachhq/fitcoach-backend/pkg/db"
	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
	"github.com/fitcoachhq/fitcoach-backend/pkg/mail"
	"github.com/fitcoachhq/fitcoach-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

const tempPasswordLength = 12

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	SendCredentials(ctx context.Context, req SendCredentialsRequest) error
}

// RegisterRequest contains self-service signup input. Role is fixed to
// client; coach accounts are provisioned out of band.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     string  `json:"name" validate:"required"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
}

// LoginRequest contains the credentials for the login flow.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SendCredentialsRequest targets an existing client whose password is reset
// to a fresh temporary one, delivered by email.
type SendCredentialsRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// AuthResponse returns the signed token alongside the profile.
type AuthResponse struct {
	Token string        `json:"token"`
	User  users.UserDTO `json:"user"`
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	Mailer         mail.Sender
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

type service struct {
	users  userRepository
	mailer mail.Sender
	jwtCfg config.JWTConfig
	pwCfg  config.PasswordConfig
	now    func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
// Mailer may be nil; SendCredentials then returns a dependency error.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{
		users:  params.UserRepo,
		mailer: params.Mailer,
		jwtCfg: params.JWTConfig,
		pwCfg:  params.PasswordConfig,
		now:    time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Phone:        req.Phone,
		Role:         enums.UserRoleClient,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return s.respondWithToken(&user)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login")
	}
	user.LastLoginAt = &now

	return s.respondWithToken(user)
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return users.FromModel(user), nil
}

// SendCredentials resets the target user's password to a generated one and
// emails it. The hash is updated before the email attempt, so a transport
// failure surfaces to the coach instead of leaving a silently usable old
// password impression.
func (s *service) SendCredentials(ctx context.Context, req SendCredentialsRequest) error {
	if s.mailer == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "email delivery is not configured")
	}
	if req.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	password, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate password")
	}
	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store password")
	}

	msg := mail.Message{
		ToName:  user.Name,
		ToEmail: user.Email,
		Subject: "Your FitCoach login credentials",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour coach created an account for you.\n\nEmail: %s\nTemporary password: %s\n\nPlease sign in and change your password.",
			user.Name, user.Email, password),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send credentials email")
	}
	return nil
}

func (s *service) respondWithToken(user *models.User) (*AuthResponse, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}
	return &AuthResponse{Token: token, User: *users.FromModel(user)}, nil
}
