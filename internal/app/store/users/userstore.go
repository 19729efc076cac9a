package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/authutil"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding user accounts.
const CollectionName = "students"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrDuplicateUsername is returned when the folded username is already taken.
	ErrDuplicateUsername = errors.New("a user with this username already exists")
	errBadRole           = errors.New(`role must be "student"|"leader"|"admin"`)
	errMissingFields     = errors.New("name, username, email and password hash are required")
	errNotHashed         = errors.New("password must be stored as a bcrypt hash")
)

// GetByID loads a user by ObjectID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername looks up a user by case-insensitive username.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	ci := text.Fold(normalize.Username(username))
	if err := s.c.FindOne(ctx, bson.M{"username_ci": ci}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailExists reports whether any user already has email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, bson.M{"email": normalize.Email(email)})
}

// UsernameExists reports whether any user already has username, ignoring case.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, bson.M{"username_ci": text.Fold(normalize.Username(username))})
}

func (s *Store) exists(ctx context.Context, filter bson.M) (bool, error) {
	err := s.c.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// Create inserts a new user after normalizing & validating fields.
// PasswordHash must already be hashed.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.Username = normalize.Username(u.Username)
	u.UsernameCI = text.Fold(u.Username)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)

	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if u.FullName == "" || u.Username == "" || u.Email == "" || u.PasswordHash == "" {
		return models.User{}, errMissingFields
	}
	if !authutil.IsBcryptHash(u.PasswordHash) {
		return models.User{}, errNotHashed
	}

	// Lists start empty, never null, so $addToSet works on first join.
	if u.Interests == nil {
		u.Interests = []string{}
	}
	u.JoinedClubs = []string{}
	u.Notifications = []string{}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, dupError(err)
		}
		return models.User{}, err
	}
	return u, nil
}

// dupError maps a duplicate-key error to the sentinel for the index that
// rejected the write.
func dupError(err error) error {
	if strings.Contains(err.Error(), "username_ci") {
		return ErrDuplicateUsername
	}
	return ErrDuplicateEmail
}

// ListByRole returns every user with role, sorted by name.
func (s *Store) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"role": normalize.Role(role)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IsLeader reports whether id names an existing user with role leader.
func (s *Store) IsLeader(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return s.exists(ctx, bson.M{"_id": id, "role": models.RoleLeader})
}

// JoinClub adds clubHex to the user's join list and notification to their
// notifications in one conditional update. joined is false when the user
// already had the club; nothing is written in that case. A missing user
// yields mongo.ErrNoDocuments.
func (s *Store) JoinClub(ctx context.Context, userID primitive.ObjectID, clubHex, notification string) (bool, error) {
	filter := bson.M{
		"_id":         userID,
		"joinedClubs": bson.M{"$ne": clubHex},
	}
	update := bson.M{
		"$addToSet": bson.M{
			"joinedClubs":   clubHex,
			"notifications": notification,
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return true, nil
	}
	found, err := s.exists(ctx, bson.M{"_id": userID})
	if err != nil {
		return false, err
	}
	if !found {
		return false, mongo.ErrNoDocuments
	}
	return false, nil
}

// ListByJoinedClub returns users whose join list contains clubHex, sorted by name.
func (s *Store) ListByJoinedClub(ctx context.Context, clubHex string) ([]models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"password": 0})
	cur, err := s.c.Find(ctx, bson.M{"joinedClubs": clubHex}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NamesByIDs maps each id that resolves to the user's full name.
func (s *Store) NamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	out := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1, "name": 1})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = u.FullName
	}
	return out, cur.Err()
}
