package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"catedra/pkg/database/migrations"
)

func Connect(databaseURL string) *sql.DB {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Fatal("Erro ao abrir conexão:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Erro Ping Banco:", err)
	}

	// Serverless PG: keep pool small, connections short-lived
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	log.Println("Conexão com PostgreSQL estabelecida.")
	return db
}

// Migrate applies the embedded goose migrations.
func Migrate(db *sql.DB) {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("[DB] goose dialect err: %v", err)
	}
	if err := goose.Up(db, "."); err != nil {
		log.Fatalf("[DB] goose up err: %v", err)
	}
	log.Println("[DB] Schema initialized")
}
