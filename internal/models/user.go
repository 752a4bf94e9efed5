// internal/models/user.go
package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID         string             `bson:"user_id" json:"user_id"`
	Email          string             `bson:"email" json:"email"`
	IsAdmin        bool               `bson:"is_admin" json:"is_admin"`
	FoundingMember bool               `bson:"founding_member,omitempty" json:"founding_member,omitempty"`
	Plan           string             `bson:"plan,omitempty" json:"plan,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

type RegisterUserRequest struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	FoundingMember bool   `json:"founding_member,omitempty"`
}

func (r *RegisterUserRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	if !isValidEmail(r.Email) {
		return errors.New("invalid email format")
	}
	return nil
}

func isValidEmail(email string) bool {
	// Basic email validation - in production, use a proper validation library
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}
