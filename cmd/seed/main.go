// Seeds an initial admin plus a couple of teachers for local development.
package main

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"catedra/pkg/config"
	"catedra/pkg/database"
	"catedra/pkg/policy"
	"catedra/pkg/repository"
)

func main() {
	cfg := config.Load()

	db := database.Connect(cfg.DatabaseURL)
	defer db.Close()
	database.Migrate(db)

	users := repository.NewUserRepository(db)

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "mudar123"
	}

	seeds := []struct {
		name, email, role, cpf string
	}{
		{"Administrador", "admin@catedra.dev", policy.RoleAdmin, ""},
		{"João Silva", "joao.silva@catedra.dev", policy.RoleTeacher, "11122233344"},
		{"María Fernández", "maria.fernandez@catedra.dev", policy.RoleTeacher, "55566677788"},
	}

	for _, s := range seeds {
		if inUse, err := users.EmailInUse(s.email, ""); err != nil {
			log.Fatalf("[SEED] erro ao checar email %s: %v", s.email, err)
		} else if inUse {
			log.Printf("[SEED] %s já existe, pulando", s.email)
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[SEED] erro hash: %v", err)
		}

		user, err := users.Create(s.name, s.email, string(hashed), s.role, s.cpf)
		if err != nil {
			log.Fatalf("[SEED] erro ao criar %s: %v", s.email, err)
		}
		log.Printf("[SEED] criado %s (%s) id=%s", user.Name, user.Role, user.ID)
	}
}
