package models

import "time"

// User is the read-only view of an account this service needs: existence
// checks before structural mutation and teacher listings. Account management
// itself lives in another service.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"fullName" db:"full_name"`
	IsTeacher bool      `json:"isTeacher" db:"is_teacher"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
