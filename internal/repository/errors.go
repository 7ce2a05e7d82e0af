// Package repository implements the service storage ports on PostgreSQL
// through gorm.
package repository

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"activity_hub/internal/apperr"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// notFound turns gorm's missing-row error into the NotFound kind and leaves
// everything else alone.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s not found", what)
	}
	return err
}
