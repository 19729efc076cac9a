// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/clubhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isUnsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("students", studentsSchema())
	ensure("clubs", clubsSchema())
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers ---------------------- */

// ensureCollection idempotently makes sure <name> exists.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err == nil && len(names) > 0 {
		zap.L().Debug("collection exists", zap.String("collection", name))
		return nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

// commandErrMatches reports whether err is a CommandError with one of codes,
// or its message contains one of the phrases.
func commandErrMatches(err error, codes []int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		for _, c := range codes {
			if ce.Code == c {
				return true
			}
		}
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErrMatches(err, []int32{48}, "already exists", "namespace exists")
}

// isUnsupported covers "no such command" (59) and "not implemented" (115).
func isUnsupported(err error) bool {
	return commandErrMatches(err, []int32{59, 115}, "no such command", "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func roleEnum() bson.A {
	out := bson.A{}
	for _, r := range models.Roles {
		out = append(out, r)
	}
	return out
}

func studentsSchema() bson.M {
	nonBlank := bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "username", "username_ci", "email", "password", "role"},
			"properties": bson.M{
				"name":          nonBlank,
				"username":      nonBlank,
				"username_ci":   nonBlank,
				"email":         nonBlank,
				"password":      nonBlank,
				"role":          bson.M{"enum": roleEnum()},
				"interests":     bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"joinedClubs":   bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"notifications": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			},
		},
	}
}

func clubsSchema() bson.M {
	nonBlank := bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "description", "leader_id"},
			"properties": bson.M{
				"name":        nonBlank,
				"name_ci":     nonBlank,
				"description": nonBlank,
				"leader_id":   bson.M{"bsonType": "objectId"},
				"members":     bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
				"announcements": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"message", "date"},
						"properties": bson.M{
							"message": nonBlank,
							"date":    bson.M{"bsonType": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
						},
					},
				},
				"events": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"title", "date", "time"},
						"properties": bson.M{
							"title": nonBlank,
							"date":  bson.M{"bsonType": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
							"time":  bson.M{"bsonType": "string", "pattern": "^\\d{2}:\\d{2}$"},
							"rsvps": bson.M{"bsonType": "array"},
						},
					},
				},
			},
		},
	}
}
