// Package entity defines domain entities.
package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UsageRecord is one stored chat exchange. Wire and document field
// names stay Spanish to preserve the public API and stored shape.
// Collection: usos
type UsageRecord struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Grade     string             `json:"grado" bson:"grado"`
	Topic     string             `json:"tema" bson:"tema"`
	Answer    string             `json:"respuesta" bson:"respuesta"`
	CreatedAt time.Time          `json:"fecha" bson:"fecha"`
}

func (UsageRecord) CollectionName() string {
	return "usos"
}
