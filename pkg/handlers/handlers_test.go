package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"catedra/pkg/middleware"
	"catedra/pkg/models"
	"catedra/pkg/policy"
	"catedra/pkg/server"
	"catedra/pkg/services"
	"catedra/pkg/validation"
)

const testSecret = "test-secret-key"

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cpfPattern   = regexp.MustCompile(`^\d{11}$`)
)

// In-memory repositories so the full HTTP stack runs without Postgres.

type memUserRepo struct {
	users     []models.User
	hashes    map[string]string
	listCalls int
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{hashes: map[string]string{}} }

func (r *memUserRepo) add(name, email, password, role, cpf string) models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u, _ := r.Create(name, email, string(hashed), role, cpf)
	return u
}

func (r *memUserRepo) Create(name, email, hashedPassword, role, cpf string) (models.User, error) {
	now := time.Now()
	u := models.User{
		ID: uuid.NewString(), Name: name, Email: strings.ToLower(email),
		Role: role, CPF: cpf, CreatedAt: now, UpdatedAt: now,
	}
	r.users = append(r.users, u)
	r.hashes[u.Email] = hashedPassword
	return u, nil
}

func (r *memUserRepo) GetByEmail(email string) (models.User, string, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			return u, r.hashes[u.Email], nil
		}
	}
	return models.User{}, "", sql.ErrNoRows
}

func (r *memUserRepo) GetByID(id string) (models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, sql.ErrNoRows
}

func (r *memUserRepo) List() ([]models.User, error) {
	r.listCalls++
	return append([]models.User{}, r.users...), nil
}

func (r *memUserRepo) Update(user models.User, hashedPassword string) (models.User, error) {
	for i, u := range r.users {
		if u.ID == user.ID {
			oldEmail := u.Email
			u.Name, u.Email, u.CPF = user.Name, strings.ToLower(user.Email), user.CPF
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

func (r *memUserRepo) Delete(id string) error {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memUserRepo) EmailInUse(email, excludeID string) (bool, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) CPFInUse(cpf, excludeID string) (bool, error) {
	for _, u := range r.users {
		if u.CPF != "" && u.CPF == cpf && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type memPostRepo struct {
	posts     []models.Post
	users     *memUserRepo
	listCalls int
}

func (r *memPostRepo) populate(p models.Post) models.Post {
	if u, err := r.users.GetByID(p.AuthorID); err == nil {
		p.Author = &models.Author{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	} else {
		p.Author = nil
	}
	return p
}

func (r *memPostRepo) Create(title, content, authorID string) (models.Post, error) {
	now := time.Now()
	p := models.Post{
		ID: uuid.NewString(), Title: title, Content: content,
		AuthorID: authorID, CreatedAt: now, UpdatedAt: now,
	}
	r.posts = append(r.posts, p)
	return r.populate(p), nil
}

func (r *memPostRepo) GetByID(id string) (models.Post, error) {
	for _, p := range r.posts {
		if p.ID == id {
			return r.populate(p), nil
		}
	}
	return models.Post{}, sql.ErrNoRows
}

func (r *memPostRepo) List() ([]models.Post, error) {
	r.listCalls++
	out := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, r.populate(p))
	}
	return out, nil
}

func (r *memPostRepo) ListByAuthor(authorID string) ([]models.Post, error) {
	out := []models.Post{}
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			out = append(out, r.populate(p))
		}
	}
	return out, nil
}

func (r *memPostRepo) Update(id, title, content string) (models.Post, error) {
	for i, p := range r.posts {
		if p.ID == id {
			p.Title, p.Content, p.UpdatedAt = title, content, time.Now()
			r.posts[i] = p
			return r.populate(p), nil
		}
	}
	return models.Post{}, sql.ErrNoRows
}

func (r *memPostRepo) Delete(id string) error {
	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return nil
}

// newTestApp wires the same routes as cmd/server, minus the rate limiter.
func newTestApp() (*fiber.App, *memUserRepo, *memPostRepo) {
	userRepo := newMemUserRepo()
	postRepo := &memPostRepo{users: userRepo}

	authSvc := services.NewAuthService(userRepo, testSecret)
	userSvc := services.NewUserService(userRepo)
	postSvc := services.NewPostService(postRepo, userRepo, nil)

	auth := NewAuth(authSvc)
	posts := NewPosts(postSvc)
	admin := NewAdmin(userSvc)

	requireAuth := middleware.Auth(testSecret, userRepo)

	app := server.NewApp("catedra-test", "http://localhost:3000")

	authGroup := app.Group("/auth")
	authGroup.Post("/login", auth.Login)
	me := authGroup.Group("", requireAuth)
	me.Get("/me", auth.Me)
	me.Put("/me", validation.Body(validation.Rules{
		"name":     {Type: validation.TypeString, Min: 3},
		"email":    {Type: validation.TypeString, Pattern: emailPattern},
		"password": {Type: validation.TypeString, Min: 6},
		"cpf":      {Type: validation.TypeString, Pattern: cpfPattern},
	}), auth.UpdateMe)

	postsGroup := app.Group("/posts")
	postsGroup.Get("/search", posts.Search)
	postsGroup.Get("/author/:authorId", posts.ListByAuthor)
	postsGroup.Get("/", posts.List)

	postsPriv := postsGroup.Group("", requireAuth, middleware.RequireRoles(policy.RoleTeacher, policy.RoleAdmin))
	postsPriv.Post("/", validation.Body(validation.Rules{
		"title":   {Required: true, Type: validation.TypeString, Min: 3, Max: 100},
		"content": {Required: true, Type: validation.TypeString, Min: 10},
	}), posts.Create)
	postsPriv.Put("/:id", validation.Body(validation.Rules{
		"title":   {Type: validation.TypeString, Min: 3, Max: 100},
		"content": {Type: validation.TypeString, Min: 10},
	}), posts.Update)
	postsPriv.Delete("/:id", posts.Delete)

	postsGroup.Get("/:id", posts.GetByID)

	adminGroup := app.Group("/admin", requireAuth, middleware.RequireRoles(policy.RoleAdmin))
	adminGroup.Post("/users", validation.Body(validation.Rules{
		"name":     {Required: true, Type: validation.TypeString, Min: 3},
		"email":    {Required: true, Type: validation.TypeString, Pattern: emailPattern},
		"password": {Required: true, Type: validation.TypeString, Min: 6},
		"cpf":      {Type: validation.TypeString, Pattern: cpfPattern},
		"role":     {Required: true, Type: validation.TypeString, Enum: []string{policy.RoleTeacher, policy.RoleAdmin}},
	}), admin.CreateUser)
	adminGroup.Get("/users", admin.ListUsers)
	adminGroup.Get("/users/:id", admin.GetUser)
	adminGroup.Delete("/users/:id", admin.DeleteUser)

	return app, userRepo, postRepo
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]any{}
	_ = json.Unmarshal(raw, &decoded)
	return resp.StatusCode, decoded, raw
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	status, body, _ := doJSON(t, app, "POST", "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	return data["token"].(string)
}
