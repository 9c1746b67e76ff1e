package user

import "github.com/google/uuid"

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
}

// Identity is the signed-in caller as seen by the use cases.
type Identity struct {
	UserID uuid.UUID
	Role   Role
	Email  string
	Name   string
}
