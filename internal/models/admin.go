package models

import "go.mongodb.org/mongo-driver/v2/bson"

// Admin is the single administrative account. Password holds the bcrypt
// hash and is never serialized into JSON responses.
type Admin struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string        `bson:"email" json:"email"`
	Password       string        `bson:"password" json:"-"`
	ProfilePicture string        `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
}
