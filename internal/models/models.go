// Package models defines the persisted entities of the ledger.
package models

// All returns every model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Account{},
		&Category{},
		&Transaction{},
		&Budget{},
		&Goal{},
	}
}
