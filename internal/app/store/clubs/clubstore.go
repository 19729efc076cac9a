package clubstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding clubs.
const CollectionName = "clubs"

var (
	// ErrDuplicateName is returned when a club with the same (folded) name exists.
	ErrDuplicateName = errors.New("a club with this name already exists")
	// ErrNotFound is returned by updates that matched no club.
	ErrNotFound = errors.New("club not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Create inserts a new club with empty announcements, events and members.
func (s *Store) Create(ctx context.Context, c models.Club) (models.Club, error) {
	c.ID = primitive.NewObjectID()
	c.Name = normalize.Name(c.Name)
	c.NameCI = text.Fold(c.Name)
	c.Announcements = []models.Announcement{}
	c.Events = []models.Event{}
	c.Members = []primitive.ObjectID{}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Club{}, ErrDuplicateName
		}
		return models.Club{}, err
	}
	return c, nil
}

// GetByID loads a club. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Club, error) {
	var c models.Club
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns every club sorted by name.
func (s *Store) List(ctx context.Context) ([]models.Club, error) {
	return s.find(ctx, bson.M{})
}

// ListByLeader returns the clubs whose leader reference is leaderID.
func (s *Store) ListByLeader(ctx context.Context, leaderID primitive.ObjectID) ([]models.Club, error) {
	return s.find(ctx, bson.M{"leader_id": leaderID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Club, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Club
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NameExists reports whether a club other than excludeID already uses name,
// ignoring case. Pass primitive.NilObjectID to check against every club.
func (s *Store) NameExists(ctx context.Context, name string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"name_ci": text.Fold(normalize.Name(name))}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	err := s.c.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// ClubUpdate holds the fields an administrator may overwrite.
type ClubUpdate struct {
	Name        string
	Description string
	LeaderID    primitive.ObjectID
}

// Update overwrites name, description and leader. Concurrent edits are
// last-write-wins.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd ClubUpdate) error {
	name := normalize.Name(upd.Name)
	set := bson.M{
		"name":        name,
		"name_ci":     text.Fold(name),
		"description": upd.Description,
		"leader_id":   upd.LeaderID,
		"updated_at":  time.Now().UTC(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a club. It does not touch users' join lists.
// Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// AddEvent appends ev to the club's events. RSVPs always start empty.
func (s *Store) AddEvent(ctx context.Context, id primitive.ObjectID, ev models.Event) error {
	ev.RSVPs = []models.RSVP{}
	return s.push(ctx, id, "events", ev)
}

// AddAnnouncement appends a to the club's announcements.
func (s *Store) AddAnnouncement(ctx context.Context, id primitive.ObjectID, a models.Announcement) error {
	return s.push(ctx, id, "announcements", a)
}

func (s *Store) push(ctx context.Context, id primitive.ObjectID, field string, v interface{}) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{field: v},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMember records userID in the club's member set.
func (s *Store) AddMember(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"members": userID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// NamesByIDs maps each id that resolves to the club's name.
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
		var c models.Club
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out[c.ID] = c.Name
	}
	return out, cur.Err()
}
