package services

import (
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"catedra/pkg/apperrors"
	"catedra/pkg/models"
	"catedra/pkg/policy"
	"catedra/pkg/repository"
)

// UserService covers the admin-only user management endpoints.
type UserService interface {
	Create(req models.CreateUserRequest) (models.User, error)
	List() ([]models.User, error)
	GetByID(id string) (models.User, error)
	Delete(adminID, id string) (models.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Create(req models.CreateUserRequest) (models.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return models.User{}, apperrors.Validation("Nome, email, senha e role são obrigatórios")
	}

	if req.Role != policy.RoleTeacher && req.Role != policy.RoleAdmin {
		return models.User{}, apperrors.Validation("Role inválida. Use: teacher ou admin")
	}

	inUse, err := s.users.EmailInUse(req.Email, "")
	if err != nil {
		return models.User{}, apperrors.Internal(err)
	}
	if inUse {
		return models.User{}, apperrors.Validation("Este email já está em uso")
	}

	if req.CPF != "" {
		inUse, err := s.users.CPFInUse(req.CPF, "")
		if err != nil {
			return models.User{}, apperrors.Internal(err)
		}
		if inUse {
			return models.User{}, apperrors.Validation("Este CPF já está cadastrado")
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, apperrors.Internal(err)
	}

	user, err := s.users.Create(req.Name, req.Email, string(hashed), req.Role, req.CPF)
	if err != nil {
		// Unique index race: two creates with the same email/cpf.
		if strings.Contains(err.Error(), "duplicate key") {
			return models.User{}, apperrors.Conflict("Registro duplicado")
		}
		return models.User{}, apperrors.Internal(err)
	}
	return user, nil
}

func (s *userService) List() ([]models.User, error) {
	users, err := s.users.List()
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}

func (s *userService) GetByID(id string) (models.User, error) {
	user, err := s.users.GetByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.NotFound("Usuário não encontrado")
	}
	if err != nil {
		return models.User{}, apperrors.Internal(err)
	}
	return user, nil
}

func (s *userService) Delete(adminID, id string) (models.User, error) {
	user, err := s.users.GetByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.NotFound("Usuário não encontrado")
	}
	if err != nil {
		return models.User{}, apperrors.Internal(err)
	}

	if user.ID == adminID {
		return models.User{}, apperrors.Authorization("Você não pode deletar sua própria conta")
	}

	if err := s.users.Delete(id); err != nil {
		return models.User{}, apperrors.Internal(err)
	}
	return user, nil
}
