package models

// Vehicle is one unit of a dealership's test-drive fleet. Lifecycle is owned by
// inventory management; the booking engine only reads active units of a model.
type Vehicle struct {
	ID         string `bson:"id" json:"id"`
	BusinessID string `bson:"businessId" json:"businessId"`
	Model      string `bson:"model" json:"model"`
	Trim       string `bson:"trim" json:"trim"`
	Active     bool   `bson:"active" json:"active"`
}
