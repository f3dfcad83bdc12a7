package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"catedra/pkg/models"
)

// In-memory repositories for exercising the services without Postgres.

type stubUserRepo struct {
	users     []models.User
	hashes    map[string]string // email -> bcrypt hash
	listCalls int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{hashes: map[string]string{}}
}

func (r *stubUserRepo) add(name, email, password, role, cpf string) models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u, _ := r.Create(name, email, string(hashed), role, cpf)
	return u
}

func (r *stubUserRepo) Create(name, email, hashedPassword, role, cpf string) (models.User, error) {
	now := time.Now()
	u := models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.ToLower(email),
		Role:      role,
		CPF:       cpf,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.users = append(r.users, u)
	r.hashes[u.Email] = hashedPassword
	return u, nil
}

func (r *stubUserRepo) GetByEmail(email string) (models.User, string, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			return u, r.hashes[u.Email], nil
		}
	}
	return models.User{}, "", sql.ErrNoRows
}

func (r *stubUserRepo) GetByID(id string) (models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, sql.ErrNoRows
}

func (r *stubUserRepo) List() ([]models.User, error) {
	r.listCalls++
	return append([]models.User{}, r.users...), nil
}

func (r *stubUserRepo) Update(user models.User, hashedPassword string) (models.User, error) {
	for i, u := range r.users {
		if u.ID == user.ID {
			oldEmail := u.Email
			u.Name = user.Name
			u.Email = strings.ToLower(user.Email)
			u.CPF = user.CPF
			u.UpdatedAt = time.Now()
			r.users[i] = u
			hash := r.hashes[oldEmail]
			if hashedPassword != "" {
				hash = hashedPassword
			}
			delete(r.hashes, oldEmail)
			r.hashes[u.Email] = hash
			return u, nil
		}
	}
	return models.User{}, sql.ErrNoRows
}

func (r *stubUserRepo) Delete(id string) error {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubUserRepo) EmailInUse(email, excludeID string) (bool, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) CPFInUse(cpf, excludeID string) (bool, error) {
	for _, u := range r.users {
		if u.CPF != "" && u.CPF == cpf && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type stubPostRepo struct {
	posts     []models.Post
	users     *stubUserRepo
	listCalls int
}

func newStubPostRepo(users *stubUserRepo) *stubPostRepo {
	return &stubPostRepo{users: users}
}

func (r *stubPostRepo) populate(p models.Post) models.Post {
	if u, err := r.users.GetByID(p.AuthorID); err == nil {
		p.Author = &models.Author{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	} else {
		p.Author = nil
	}
	return p
}

func (r *stubPostRepo) Create(title, content, authorID string) (models.Post, error) {
	now := time.Now()
	p := models.Post{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.posts = append(r.posts, p)
	return r.populate(p), nil
}

func (r *stubPostRepo) GetByID(id string) (models.Post, error) {
	for _, p := range r.posts {
		if p.ID == id {
			return r.populate(p), nil
		}
	}
	return models.Post{}, sql.ErrNoRows
}

func (r *stubPostRepo) List() ([]models.Post, error) {
	r.listCalls++
	out := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, r.populate(p))
	}
	return out, nil
}

func (r *stubPostRepo) ListByAuthor(authorID string) ([]models.Post, error) {
	out := []models.Post{}
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			out = append(out, r.populate(p))
		}
	}
	return out, nil
}

func (r *stubPostRepo) Update(id, title, content string) (models.Post, error) {
	for i, p := range r.posts {
		if p.ID == id {
			p.Title = title
			p.Content = content
			p.UpdatedAt = time.Now()
			r.posts[i] = p
			return r.populate(p), nil
		}
	}
	return models.Post{}, sql.ErrNoRows
}

func (r *stubPostRepo) Delete(id string) error {
	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return nil
}
