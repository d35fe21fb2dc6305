package users

import "time"

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

// ValidRole reports whether role is a known account role.
func ValidRole(role string) bool {
	return role == RolePatient || role == RoleDoctor
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
