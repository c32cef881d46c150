package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var suggestionCategories = map[string]bool{"UI": true, "Feature": true, "Bug": true, "Other": true}

const (
	SuggestionCategoryOther = "Other"
	SuggestionPending       = "pending"
)

func ValidSuggestionCategory(c string) bool {
	return suggestionCategories[c]
}

type Suggestion struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId"`
	Text      string             `bson:"text" json:"text"`
	Category  string             `bson:"category" json:"category"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// APILog is one persisted request/response pair.
type APILog struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty"`
	RequestID       string              `bson:"requestId"`
	HTTPMethod      string              `bson:"httpMethod"`
	RequestURL      string              `bson:"requestUrl"`
	Description     string              `bson:"description"`
	RequestParams   map[string][]string `bson:"requestParams,omitempty"`
	RequestPayload  string              `bson:"requestPayload,omitempty"`
	ResponsePayload string              `bson:"responsePayload,omitempty"`
	ResponseStatus  int                 `bson:"responseStatus"`
	ErrorMessage    string              `bson:"errorMessage,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt"`
}
