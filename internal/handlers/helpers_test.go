package handlers_test

import (
	"gorm.io/gorm"
)

// errNotFound — короткий алиас для «строки нет» в ожиданиях моков.
func errNotFound() error {
	return gorm.ErrRecordNotFound
}
