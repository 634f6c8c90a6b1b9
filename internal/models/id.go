package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDLength is the length of every entity identifier
const IDLength = 24

// NewID returns a fresh 24 hex character identifier
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id has the identifier shape. Anything else is
// treated as not found without touching the store.
func ValidID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}
