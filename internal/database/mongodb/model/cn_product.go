package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CNProduct struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CNNumber      string             `json:"cnNumber" bson:"cnNumber"`
	ProductName   string             `json:"productName" bson:"productName"`
	Category      string             `json:"category,omitempty" bson:"category,omitempty"`
	Manufacturer  string             `json:"manufacturer,omitempty" bson:"manufacturer,omitempty"`
	ServingSize   string             `json:"servingSize,omitempty" bson:"servingSize,omitempty"`
	NutritionData map[string]float64 `json:"nutritionData,omitempty" bson:"nutritionData,omitempty"`
	Metadata      map[string]any     `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CNServing struct {
	ID                 primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	CNNumber           string             `json:"cnNumber" bson:"cnNumber"`
	SequenceNum        int                `json:"sequence" bson:"sequenceNum"`
	Amount             float64            `json:"amount" bson:"amount"`
	MeasureDescription string             `json:"measure" bson:"measureDescription"`
	UnitAmount         float64            `json:"grams" bson:"unitAmount"`
	TypeOfUnit         string             `json:"unit" bson:"typeOfUnit"`
}
