package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalogue item
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty" yaml:"-"`
	Name         string             `bson:"name" json:"name" yaml:"name"`
	Image        string             `bson:"image" json:"image" yaml:"image"`
	Brand        string             `bson:"brand" json:"brand" yaml:"brand"`
	Category     string             `bson:"category" json:"category" yaml:"category"`
	Description  string             `bson:"description" json:"description" yaml:"description"`
	Price        float64            `bson:"price" json:"price" yaml:"price"`
	CountInStock int                `bson:"countInStock" json:"countInStock" yaml:"countInStock"`
	Rating       float64            `bson:"rating" json:"rating" yaml:"rating"`
	NumReviews   int                `bson:"numReviews" json:"numReviews" yaml:"numReviews"`
}
