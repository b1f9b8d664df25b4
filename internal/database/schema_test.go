package database

import (
	"io/fs"
	"strings"
	"testing"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	content, err := fs.ReadFile(embedMigrations, migrationsDir+"/"+name)
	if err != nil {
		t.Fatalf("Failed to read migration %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesAreEmbedded(t *testing.T) {
	expected := []string{
		"00001_create_categories_table.sql",
		"00002_create_products_table.sql",
	}

	for _, name := range expected {
		if _, err := fs.Stat(embedMigrations, migrationsDir+"/"+name); err != nil {
			t.Errorf("Migration file %s is not embedded: %v", name, err)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	entries, err := fs.ReadDir(embedMigrations, migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read embedded migrations: %v", err)
	}

	if len(entries) == 0 {
		t.Fatal("No SQL migration files embedded")
	}

	for _, entry := range entries {
		content := readMigration(t, entry.Name())

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(content, directive) {
				t.Errorf("Migration file %s missing '%s' directive", entry.Name(), directive)
			}
		}
	}
}

func TestCategoriesTableShape(t *testing.T) {
	content := readMigration(t, "00001_create_categories_table.sql")

	for _, fragment := range []string{
		"CREATE TABLE IF NOT EXISTS categories",
		"id SERIAL PRIMARY KEY",
		"name VARCHAR(100) NOT NULL",
		"description VARCHAR(255) NOT NULL",
		"CONSTRAINT categories_name_key UNIQUE (name)",
		"DROP TABLE IF EXISTS categories",
	} {
		if !strings.Contains(content, fragment) {
			t.Errorf("categories migration missing %q", fragment)
		}
	}
}

func TestProductsTableShape(t *testing.T) {
	content := readMigration(t, "00002_create_products_table.sql")

	for _, fragment := range []string{
		"CREATE TABLE IF NOT EXISTS products",
		"id SERIAL PRIMARY KEY",
		"name VARCHAR(100) NOT NULL",
		"description VARCHAR(255) NOT NULL",
		"price NUMERIC(14, 2) NOT NULL",
		"image VARCHAR(255) NOT NULL",
		"stock INTEGER",
		"purchase_date TIMESTAMPTZ",
		"CONSTRAINT products_name_key UNIQUE (name)",
		"FOREIGN KEY (category_id)",
		"ON DELETE RESTRICT",
		"DROP TABLE IF EXISTS products",
	} {
		if !strings.Contains(content, fragment) {
			t.Errorf("products migration missing %q", fragment)
		}
	}
}
