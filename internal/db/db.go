package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the database and runs migrations. Supported drivers are
// "postgres" and "sqlite3".
func Connect(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db, driver); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB, driver string) error {
	serial := "SERIAL PRIMARY KEY"
	timestamp := "TIMESTAMPTZ DEFAULT NOW()"
	if driver == "sqlite3" {
		serial = "INTEGER PRIMARY KEY AUTOINCREMENT"
		timestamp = "DATETIME DEFAULT CURRENT_TIMESTAMP"
	}

	migrations := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
            id %s,
            username TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            created_at %s
        );`, serial, timestamp),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS projects (
            id %s,
            name TEXT NOT NULL,
            description TEXT DEFAULT '',
            template TEXT NOT NULL DEFAULT 'blank',
            user_id INT NOT NULL REFERENCES users(id),
            created_at %s,
            updated_at %s
        );`, serial, timestamp, timestamp),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS files (
            id %s,
            name TEXT NOT NULL,
            path TEXT NOT NULL,
            content TEXT DEFAULT '',
            type TEXT NOT NULL,
            project_id INT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
            parent_id INT,
            created_at %s,
            updated_at %s
        );`, serial, timestamp, timestamp),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS collaborators (
            id %s,
            project_id INT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
            user_id INT NOT NULL REFERENCES users(id),
            role TEXT NOT NULL DEFAULT 'viewer',
            created_at %s
        );`, serial, timestamp),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chat_messages (
            id %s,
            project_id INT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
            user_id INT NOT NULL REFERENCES users(id),
            message TEXT NOT NULL,
            created_at %s
        );`, serial, timestamp),
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
