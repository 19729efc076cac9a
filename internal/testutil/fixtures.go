package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/authutil"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TestPassword is the plaintext password given to every fixture user.
const TestPassword = "secret-pass-1"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given role whose password is TestPassword.
// The username is derived from the name ("Ann Lee" -> "annlee").
func (f *Fixtures) CreateUser(ctx context.Context, name, role string) models.User {
	f.t.Helper()

	hash, err := authutil.HashPassword(TestPassword)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}

	username := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	now := time.Now().UTC()
	user := models.User{
		ID:            primitive.NewObjectID(),
		FullName:      name,
		Username:      username,
		UsernameCI:    text.Fold(username),
		Email:         username + "@test.com",
		PasswordHash:  hash,
		Role:          role,
		Interests:     []string{},
		JoinedClubs:   []string{},
		Notifications: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("students").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateStudent creates a user with the student role.
func (f *Fixtures) CreateStudent(ctx context.Context, name string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, models.RoleStudent)
}

// CreateLeader creates a user with the leader role.
func (f *Fixtures) CreateLeader(ctx context.Context, name string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, models.RoleLeader)
}

// CreateAdmin creates a user with the admin role.
func (f *Fixtures) CreateAdmin(ctx context.Context, name string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, models.RoleAdmin)
}

// CreateClub inserts a club led by leaderID with no events, announcements or members.
func (f *Fixtures) CreateClub(ctx context.Context, name string, leaderID primitive.ObjectID) models.Club {
	f.t.Helper()

	now := time.Now().UTC()
	club := models.Club{
		ID:            primitive.NewObjectID(),
		Name:          name,
		NameCI:        text.Fold(name),
		Description:   "About " + name,
		LeaderID:      leaderID,
		Announcements: []models.Announcement{},
		Events:        []models.Event{},
		Members:       []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("clubs").InsertOne(ctx, club); err != nil {
		f.t.Fatalf("failed to create test club: %v", err)
	}
	return club
}

// GetUser reloads a user by id.
func (f *Fixtures) GetUser(ctx context.Context, id primitive.ObjectID) models.User {
	f.t.Helper()
	var u models.User
	if err := f.db.Collection("students").FindOne(ctx, map[string]interface{}{"_id": id}).Decode(&u); err != nil {
		f.t.Fatalf("failed to load user %s: %v", id.Hex(), err)
	}
	return u
}

// GetClub reloads a club by id.
func (f *Fixtures) GetClub(ctx context.Context, id primitive.ObjectID) models.Club {
	f.t.Helper()
	var c models.Club
	if err := f.db.Collection("clubs").FindOne(ctx, map[string]interface{}{"_id": id}).Decode(&c); err != nil {
		f.t.Fatalf("failed to load club %s: %v", id.Hex(), err)
	}
	return c
}

// ClubCount returns the number of clubs in the database.
func (f *Fixtures) ClubCount(ctx context.Context) int64 {
	f.t.Helper()
	n, err := f.db.Collection("clubs").CountDocuments(ctx, map[string]interface{}{})
	if err != nil {
		f.t.Fatalf("failed to count clubs: %v", err)
	}
	return n
}
