package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProductsMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_products_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS product_variants",
		"CREATE TABLE IF NOT EXISTS bulk_prices",
		"CREATE TABLE IF NOT EXISTS product_photos",
		"CREATE TABLE IF NOT EXISTS product_videos",
		"CREATE TABLE IF NOT EXISTS product_keywords",
		"CREATE TABLE IF NOT EXISTS product_characteristics",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_articul",
		"CHECK (amount >= 0)",
		"ON DELETE CASCADE",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_orders_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CHECK (quantity > 0)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestReviewsMigrationEnforcesOneReviewPerUser(t *testing.T) {
	content := readMigration(t, "*_create_reviews_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS reviews",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_user_product",
		"CHECK (rating BETWEEN 1 AND 5)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
