// Package domain defines the types and interfaces for the ident service
package domain

// User is one row of the central identity mirror
type User struct {
	ID     int64
	Name   string
	Hidden bool
}
