package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStockMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_stock_records.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS stock_records",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE",
		"CHECK (quantity >= 0)",
		"DROP TABLE IF EXISTS stock_records",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationEnforcesTotalInvariant(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CHECK (total_cents >= 0)",
		"CHECK (total_cents = subtotal_cents + tax_cents + shipping_cents - discount_cents)",
		"CHECK (qty > 0)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestWalletMigrationKeepsBalanceNonNegative(t *testing.T) {
	content := readMigration(t, "*_create_wallets.sql")

	if !strings.Contains(content, "CHECK (balance_cents >= 0)") {
		t.Error("wallet balance check missing")
	}
	if !strings.Contains(content, "CREATE TABLE IF NOT EXISTS wallet_transactions") {
		t.Error("wallet transactions table missing")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file found for %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
