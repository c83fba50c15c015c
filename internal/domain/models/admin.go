// internal/domain/models/admin.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is a CMS operator. Admins are created through the one-time setup
// route (or startup seeding) and are never deleted in-app.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email        string             `bson:"email" json:"email"` // stored lowercase
	PasswordHash string             `bson:"password_hash" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// RoleAdmin is the only role carried in access tokens.
const RoleAdmin = "admin"

// AdminView is the safe projection of an Admin returned to clients.
type AdminView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// View returns the client-safe projection of the admin.
func (a Admin) View() AdminView {
	return AdminView{ID: a.ID.Hex(), Email: a.Email}
}
