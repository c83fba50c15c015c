// internal/app/system/lookup/lookup.go
package lookup

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Key identifies a document by slug, by ObjectID, or by slug-then-ID.
// Handlers build a Key once from the path value; stores never guess.
type Key struct {
	Slug  string
	ID    primitive.ObjectID
	HasID bool
}

// BySlug matches only the slug field.
func BySlug(slug string) Key {
	return Key{Slug: strings.TrimSpace(slug)}
}

// ByID matches only _id.
func ByID(id primitive.ObjectID) Key {
	return Key{ID: id, HasID: true}
}

// Parse builds the slug-first key used by idOrSlug routes. The value is
// always tried as a slug; it is also tried as an _id when it is valid hex.
func Parse(raw string) Key {
	raw = strings.TrimSpace(raw)
	k := Key{Slug: raw}
	if oid, err := primitive.ObjectIDFromHex(raw); err == nil {
		k.ID = oid
		k.HasID = true
	}
	return k
}

// IDOnly builds a key for entities without slugs. An invalid hex value
// yields an empty key, which matches nothing.
func IDOnly(raw string) Key {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return Key{}
	}
	return ByID(oid)
}

// Empty reports whether the key can match nothing.
func (k Key) Empty() bool {
	return k.Slug == "" && !k.HasID
}

// Filters returns the filters to try in order, slug first.
func (k Key) Filters() []bson.M {
	var out []bson.M
	if k.Slug != "" {
		out = append(out, bson.M{"slug": k.Slug})
	}
	if k.HasID {
		out = append(out, bson.M{"_id": k.ID})
	}
	return out
}

func (k Key) String() string {
	if k.Slug != "" {
		return k.Slug
	}
	if k.HasID {
		return k.ID.Hex()
	}
	return ""
}
