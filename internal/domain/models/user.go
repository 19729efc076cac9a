package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a student, club leader, or administrator account.
//
// NOTE:
//   - JoinedClubs holds club ids in their hex form, exactly as they appear in
//     URLs. Deleting a club does not remove its id from these lists; readers
//     skip ids that no longer resolve.
//   - Notifications are appended with set semantics, so a given message is
//     stored at most once.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName      string             `bson:"name" json:"name"`
	Username      string             `bson:"username" json:"username"`
	UsernameCI    string             `bson:"username_ci" json:"-"` // folded copy used for lookups
	Email         string             `bson:"email" json:"email"`
	PasswordHash  string             `bson:"password" json:"-"`
	Role          string             `bson:"role" json:"role"` // student | leader | admin
	Interests     []string           `bson:"interests" json:"interests"`
	JoinedClubs   []string           `bson:"joinedClubs" json:"joined_clubs"`
	Notifications []string           `bson:"notifications" json:"notifications"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasJoined reports whether clubHex is in the user's join list.
func (u User) HasJoined(clubHex string) bool {
	for _, id := range u.JoinedClubs {
		if id == clubHex {
			return true
		}
	}
	return false
}
