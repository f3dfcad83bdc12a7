package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"catedra/pkg/apperrors"
	"catedra/pkg/models"
	"catedra/pkg/repository"
)

const tokenTTL = 7 * 24 * time.Hour

type AuthService interface {
	Login(req models.LoginRequest) (models.LoginData, error)
	Me(userID string) (models.User, error)
	UpdateMe(userID string, req models.UpdateMeRequest) (models.User, error)
}

type authService struct {
	users     repository.UserRepository
	jwtSecret string
}

func NewAuthService(users repository.UserRepository, jwtSecret string) AuthService {
	return &authService{users: users, jwtSecret: jwtSecret}
}

func (s *authService) Login(req models.LoginRequest) (models.LoginData, error) {
	if req.Email == "" || req.Password == "" {
		return models.LoginData{}, apperrors.Validation("Email e senha são obrigatórios")
	}

	user, hashedPw, err := s.users.GetByEmail(req.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LoginData{}, apperrors.Authentication("Credenciais inválidas")
	}
	if err != nil {
		return models.LoginData{}, apperrors.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPw), []byte(req.Password)); err != nil {
		return models.LoginData{}, apperrors.Authentication("Credenciais inválidas")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.LoginData{}, apperrors.Internal(err)
	}

	return models.LoginData{User: user, Token: token}, nil
}

func (s *authService) Me(userID string) (models.User, error) {
	user, err := s.users.GetByID(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.NotFound("Usuário não encontrado")
	}
	if err != nil {
		return models.User{}, apperrors.Internal(err)
	}
	return user, nil
}

func (s *authService) UpdateMe(userID string, req models.UpdateMeRequest) (models.User, error) {
	user, err := s.users.GetByID(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.NotFound("Usuário não encontrado")
	}
	if err != nil {
		return models.User{}, apperrors.Internal(err)
	}

	if req.Email != "" && req.Email != user.Email {
		inUse, err := s.users.EmailInUse(req.Email, user.ID)
		if err != nil {
			return models.User{}, apperrors.Internal(err)
		}
		if inUse {
			return models.User{}, apperrors.Conflict("Email já está em uso")
		}
		user.Email = req.Email
	}

	if req.CPF != "" && req.CPF != user.CPF {
		inUse, err := s.users.CPFInUse(req.CPF, user.ID)
		if err != nil {
			return models.User{}, apperrors.Internal(err)
		}
		if inUse {
			return models.User{}, apperrors.Conflict("CPF já está em uso")
		}
		user.CPF = req.CPF
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	hashedPw := ""
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, apperrors.Internal(err)
		}
		hashedPw = string(hashed)
	}

	updated, err := s.users.Update(user, hashedPw)
	if err != nil {
		return models.User{}, apperrors.Internal(err)
	}
	return updated, nil
}

func (s *authService) generateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(tokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
