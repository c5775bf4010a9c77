package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationFilesExist(t *testing.T) {
	migrationsDir := "../../migrations"

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_products_table.sql",
		"00002_create_shopping_carts_table.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	migrationsDir := "../../migrations"

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		text := string(content)
		if !strings.Contains(text, "-- +goose Up") {
			t.Errorf("Migration %s is missing a goose Up section", file.Name())
		}
		if !strings.Contains(text, "-- +goose Down") {
			t.Errorf("Migration %s is missing a goose Down section", file.Name())
		}
	}

	if sqlFileCount == 0 {
		t.Error("No migration files found")
	}
}

func TestProductsMigrationEnforcesNonNegativeStock(t *testing.T) {
	content, err := os.ReadFile("../../migrations/00001_create_products_table.sql")
	if err != nil {
		t.Fatalf("Failed to read products migration: %v", err)
	}

	if !strings.Contains(string(content), "CHECK (stock >= 0)") {
		t.Error("products migration does not enforce non-negative stock")
	}
}
