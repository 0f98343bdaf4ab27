package cnst

import "errors"

var (
	// ErrNotFound is returned when an entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on uniqueness violations and illegal state changes
	ErrConflict = errors.New("conflict")
	// ErrSuperadminProtected is returned when a superadmin account is demoted or deleted
	ErrSuperadminProtected = errors.New("superadmin account is protected")
)
