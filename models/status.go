package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Per-user property status labels.
const (
	StatusActive       = "Active"
	StatusSellOut      = "Sell out"
	StatusRentOut      = "Rent out"
	StatusBroker       = "Broker"
	StatusDuplicate    = "Duplicate"
	StatusDataMismatch = "Data Mismatch"
)

var validStatuses = []string{
	StatusActive, StatusSellOut, StatusRentOut, StatusBroker, StatusDuplicate, StatusDataMismatch,
}

// ValidStatuses returns the accepted status labels in display order.
func ValidStatuses() []string {
	out := make([]string, len(validStatuses))
	copy(out, validStatuses)
	return out
}

// ValidStatus returns true if s is a known status label.
func ValidStatus(s string) bool {
	for _, v := range validStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// DefaultExcludedStatuses hides a property from the user who set one of them.
func DefaultExcludedStatuses() []string {
	return []string{StatusSellOut, StatusRentOut, StatusBroker, StatusDuplicate, StatusDataMismatch}
}

type PropertyStatus struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId"`
	PropID    string             `bson:"propId" json:"propId"`
	Status    string             `bson:"status" json:"status"`
	CreatedOn time.Time          `bson:"createdOn" json:"createdOn"`
	UpdatedOn time.Time          `bson:"updatedOn" json:"updatedOn"`
}

type PropertyRemark struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId"`
	PropID    string             `bson:"propId" json:"propId"`
	Remark    string             `bson:"remark" json:"remark"`
	CreatedOn time.Time          `bson:"createdOn" json:"createdOn"`
	UpdatedOn time.Time          `bson:"updatedOn" json:"updatedOn"`
}

// StatusChange is the response of a status update.
type StatusChange struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
