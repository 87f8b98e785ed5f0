package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	pkgerrors "github.com/dcastillo/mercato-backend/pkg/errors"
)

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error should not match")
	}
	err := errors.New(`duplicate key value violates unique constraint "coupon_usages_order_id_key"`)
	if !IsUniqueViolation(err, "") {
		t.Fatal("generic duplicate key should match")
	}
	if !IsUniqueViolation(err, "coupon_usages_order_id_key") {
		t.Fatal("named constraint should match")
	}
	if IsUniqueViolation(err, "other_constraint") {
		t.Fatal("different constraint should not match")
	}
}

func TestTranslateLockError(t *testing.T) {
	deadlock := &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}
	got := TranslateLockError(deadlock, "reserve stock")
	typed := pkgerrors.As(got)
	if typed == nil || typed.Code() != pkgerrors.CodeConcurrencyTimeout {
		t.Fatalf("expected concurrency timeout, got %v", got)
	}

	plain := errors.New("boom")
	if TranslateLockError(plain, "x") != plain {
		t.Fatal("non-lock errors must pass through unchanged")
	}
	if TranslateLockError(nil, "x") != nil {
		t.Fatal("nil should stay nil")
	}
}
