// Package objectid validates and generates the 24-hex document keys used by
// users, categories and listings.
package objectid

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"classifieds-api/internal/domain/apperror"
)

// Parse checks that s is exactly 24 hexadecimal characters (any case) and
// returns its canonical lowercase form.
func Parse(s string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return "", apperror.Newf(apperror.InvalidIdentifier, "invalid identifier %q", s)
	}
	return oid.Hex(), nil
}

// ParseAll stops on the first malformed key.
func ParseAll(ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		p, err := Parse(id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func New() string { return primitive.NewObjectID().Hex() }
