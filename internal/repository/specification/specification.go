package specification

import "gorm.io/gorm"

// Specification is a composable query fragment. Repositories chain
// Apply calls so callers describe filters without touching gorm.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
