package repository

import (
	"database/sql"
	"strings"

	"catedra/pkg/models"
)

type UserRepository interface {
	Create(name, email, hashedPassword, role, cpf string) (models.User, error)
	GetByEmail(email string) (models.User, string, error)
	GetByID(id string) (models.User, error)
	List() ([]models.User, error)
	Update(user models.User, hashedPassword string) (models.User, error)
	Delete(id string) error
	EmailInUse(email, excludeID string) (bool, error)
	CPFInUse(cpf, excludeID string) (bool, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, role, COALESCE(cpf, ''), created_at, updated_at`

func (r *userRepository) Create(name, email, hashedPassword, role, cpf string) (models.User, error) {
	var user models.User
	err := r.db.QueryRow(
		`INSERT INTO users (name, email, password, role, cpf)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		 RETURNING `+userColumns,
		name, strings.ToLower(email), hashedPassword, role, cpf,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.CPF, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

func (r *userRepository) GetByEmail(email string) (models.User, string, error) {
	var user models.User
	var hashedPw string
	err := r.db.QueryRow(
		`SELECT id, name, email, password, role, COALESCE(cpf, ''), created_at, updated_at
		 FROM users WHERE email = $1`,
		strings.ToLower(email),
	).Scan(&user.ID, &user.Name, &user.Email, &hashedPw, &user.Role, &user.CPF, &user.CreatedAt, &user.UpdatedAt)
	return user, hashedPw, err
}

func (r *userRepository) GetByID(id string) (models.User, error) {
	var user models.User
	err := r.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE id::text = $1`, id,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.CPF, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

func (r *userRepository) List() ([]models.User, error) {
	rows, err := r.db.Query(
		`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CPF, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Update(user models.User, hashedPassword string) (models.User, error) {
	var updated models.User
	err := r.db.QueryRow(
		`UPDATE users SET
			name = $1,
			email = $2,
			cpf = NULLIF($3, ''),
			password = COALESCE(NULLIF($4, ''), password),
			updated_at = NOW()
		 WHERE id::text = $5
		 RETURNING `+userColumns,
		user.Name, strings.ToLower(user.Email), user.CPF, hashedPassword, user.ID,
	).Scan(&updated.ID, &updated.Name, &updated.Email, &updated.Role, &updated.CPF, &updated.CreatedAt, &updated.UpdatedAt)
	return updated, err
}

func (r *userRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM users WHERE id::text = $1`, id)
	return err
}

func (r *userRepository) EmailInUse(email, excludeID string) (bool, error) {
	var inUse bool
	err := r.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id::text <> $2)`,
		strings.ToLower(email), excludeID,
	).Scan(&inUse)
	return inUse, err
}

func (r *userRepository) CPFInUse(cpf, excludeID string) (bool, error) {
	var inUse bool
	err := r.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM users WHERE cpf = $1 AND id::text <> $2)`,
		cpf, excludeID,
	).Scan(&inUse)
	return inUse, err
}
