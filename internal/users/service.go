package users

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/pkg/config"
	"github.com/fitcoachhq/fitcoach-backend/pkg/db"
	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
	"github.com/fitcoachhq/fitcoach-backend/pkg/security"
)

const tempPasswordLength = 12

// Service covers coach-side client management and the assessment flag.
type Service interface {
	ListClients(ctx context.Context) ([]UserDTO, error)
	CreateClient(ctx context.Context, params CreateClientParams) (*CreateClientResult, error)
	UpdateClient(ctx context.Context, id uuid.UUID, params UpdateClientParams) (*UserDTO, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
	AssessmentStatus(ctx context.Context, userID uuid.UUID) (bool, error)
	CompleteAssessment(ctx context.Context, userID uuid.UUID) error
}

// CreateClientParams holds coach-supplied client data. When Password is
// empty a temporary one is generated and returned so it can be relayed.
type CreateClientParams struct {
	Email    string
	Name     string
	Phone    *string
	Password string
}

// CreateClientResult carries the created client and, when generated, the
// temporary password to hand off.
type CreateClientResult struct {
	User         UserDTO `json:"user"`
	TempPassword string  `json:"temp_password,omitempty"`
}

// UpdateClientParams holds partial profile updates; nil fields are left as is.
type UpdateClientParams struct {
	Name  *string
	Phone *string
}

type service struct {
	repo Repository
	pw   config.PasswordConfig
}

// NewService wires user-management dependencies.
func NewService(repo Repository, pw config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	return &service{repo: repo, pw: pw}, nil
}

func (s *service) ListClients(ctx context.Context) ([]UserDTO, error) {
	clients, err := s.repo.ListByRole(ctx, enums.UserRoleClient)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clients")
	}
	return FromModels(clients), nil
}

func (s *service) CreateClient(ctx context.Context, params CreateClientParams) (*CreateClientResult, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}

	password := params.Password
	temp := ""
	if password == "" {
		generated, err := security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
		}
		password = generated
		temp = generated
	}

	hash, err := security.HashPassword(password, s.pw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(params.Name),
		Phone:        params.Phone,
		Role:         enums.UserRoleClient,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create client")
	}

	return &CreateClientResult{User: *FromModel(&user), TempPassword: temp}, nil
}

func (s *service) UpdateClient(ctx context.Context, id uuid.UUID, params UpdateClientParams) (*UserDTO, error) {
	user, err := s.findClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		user.Name = name
	}
	if params.Phone != nil {
		user.Phone = params.Phone
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update client")
	}
	return FromModel(user), nil
}

func (s *service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findClient(ctx, id); err != nil {
		return err
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete client")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
	}
	return nil
}

func (s *service) AssessmentStatus(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.AssessmentCompleted, nil
}

func (s *service) CompleteAssessment(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.findUser(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.SetAssessmentCompleted(ctx, userID, true); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete assessment")
	}
	return nil
}

func (s *service) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user, nil
}

func (s *service) findClient(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != enums.UserRoleClient {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
	}
	return user, nil
}
