package main

import (
	"log"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"catedra/pkg/cache"
	"catedra/pkg/config"
	"catedra/pkg/database"
	"catedra/pkg/handlers"
	"catedra/pkg/middleware"
	"catedra/pkg/policy"
	"catedra/pkg/repository"
	"catedra/pkg/server"
	"catedra/pkg/services"
	"catedra/pkg/validation"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cpfPattern   = regexp.MustCompile(`^\d{11}$`)
)

func main() {
	cfg := config.Load()

	db := database.Connect(cfg.DatabaseURL)
	defer db.Close()
	database.Migrate(db)

	log.Println("[API] Connecting to Redis...")
	redis := cache.New(cfg.RedisURL)
	defer redis.Close()
	log.Println("[API] Redis connected")

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret)
	userSvc := services.NewUserService(userRepo)
	postSvc := services.NewPostService(postRepo, userRepo, redis)

	auth := handlers.NewAuth(authSvc)
	posts := handlers.NewPosts(postSvc)
	admin := handlers.NewAdmin(userSvc)

	requireAuth := middleware.Auth(cfg.JWTSecret, userRepo)

	app := server.NewApp("catedra", cfg.AllowOrigins)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.Login)

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

	addr := "0.0.0.0:" + cfg.Port
	log.Printf("[API] Server starting on %s", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("[API] Failed to start: %v", err)
	}
}
