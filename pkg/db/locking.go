package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockForUpdate scopes the query with SELECT ... FOR UPDATE so the matched
// rows stay exclusively locked until the enclosing transaction ends. SQLite
// has no row-level locking clause; its single-writer transaction lock gives
// the same serialization, so the clause is skipped there.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return tx
	}
	if tx.Dialector != nil && tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
