package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Club is a student club. Announcements and events are embedded and have no
// identity or lifecycle of their own.
type Club struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string               `bson:"name" json:"name"`
	NameCI        string               `bson:"name_ci" json:"-"`
	Description   string               `bson:"description" json:"description"`
	LeaderID      primitive.ObjectID   `bson:"leader_id" json:"leader_id"`
	Announcements []Announcement       `bson:"announcements" json:"announcements"`
	Events        []Event              `bson:"events" json:"events"`
	Members       []primitive.ObjectID `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Announcement is a dated message posted to a club.
type Announcement struct {
	Message string `bson:"message" json:"message"`
	Date    string `bson:"date" json:"date"` // YYYY-MM-DD
}

// Event is a scheduled club meeting.
type Event struct {
	Title string `bson:"title" json:"title"`
	Date  string `bson:"date" json:"date"` // YYYY-MM-DD
	Time  string `bson:"time" json:"time"` // HH:MM
	RSVPs []RSVP `bson:"rsvps" json:"rsvps"`
}

// RSVP records a user's response to an event. Nothing writes these yet.
type RSVP struct {
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Date and time layouts for embedded club items.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)
