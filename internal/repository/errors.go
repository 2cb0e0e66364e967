// Package repository contains data access logic for the play catalog.
// Sentinel errors defined here let handlers distinguish missing rows from
// storage failures.
package repository

import "errors"

// ErrPlayNotFound is returned when no play exists for the requested id.
// Handlers translate it into an HTTP 404 response.
var ErrPlayNotFound = errors.New("play not found")
