// internal/app/features/admin/helpers.go
package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Messages shared by add and edit.
const (
	msgMissingFields = "All fields are required."
	msgBadLeader     = "Please choose a valid club leader."
	msgDuplicateName = "A club with this name already exists."
	msgClubNotFound  = "Club not found"
)

func readClubForm(r *http.Request) clubInput {
	return clubInput{
		Name:        htmlsanitize.StripTags(normalize.Name(r.PostFormValue("name"))),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		LeaderHex:   normalize.ObjectIDHex(r.PostFormValue("leader_id")),
	}
}

// validLeader resolves hex to a user whose role is leader. ok is false for a
// malformed id or any other user.
func (h *Handler) validLeader(ctx context.Context, hex string) (id primitive.ObjectID, ok bool, err error) {
	id, perr := primitive.ObjectIDFromHex(hex)
	if perr != nil {
		return primitive.NilObjectID, false, nil
	}
	ok, err = h.Users.IsLeader(ctx, id)
	return id, ok, err
}

// parseClubID reads {id}. Malformed ids are treated like unknown clubs.
func parseClubID(hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(normalize.ObjectIDHex(hex))
	return id, err == nil
}
