package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property is a catalog listing as stored in the Proeprty-Details collection.
type Property struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title                 string             `bson:"title" json:"title"`
	ListedDate            time.Time          `bson:"listedDate,omitempty" json:"listedDate,omitempty"`
	Type                  string             `bson:"type" json:"type"`
	Rent                  string             `bson:"rent,omitempty" json:"rent,omitempty"`
	RentValue             float64            `bson:"rentValue" json:"rentValue"`
	BHK                   string             `bson:"bhk" json:"bhk"`
	FurnishedType         string             `bson:"furnishedType" json:"furnishedType"`
	SquareFt              string             `bson:"squareFt,omitempty" json:"squareFt,omitempty"`
	SqFt                  float64            `bson:"sqFt" json:"sqFt"`
	Address               string             `bson:"address" json:"address"`
	Area                  string             `bson:"area" json:"area"`
	City                  string             `bson:"city" json:"city"`
	Status                string             `bson:"status,omitempty" json:"status,omitempty"`
	Amenities             string             `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Bathrooms             string             `bson:"bathrooms,omitempty" json:"bathrooms,omitempty"`
	Description           string             `bson:"description,omitempty" json:"description,omitempty"`
	Description1          string             `bson:"description1,omitempty" json:"description1,omitempty"`
	UserType              string             `bson:"userType,omitempty" json:"userType,omitempty"`
	UnitType              string             `bson:"unitType,omitempty" json:"unitType,omitempty"`
	PropertyCurrentStatus string             `bson:"propertyCurrentStatus,omitempty" json:"propertyCurrentStatus,omitempty"`
	Key                   string             `bson:"key,omitempty" json:"key,omitempty"`
	Name                  string             `bson:"name,omitempty" json:"name,omitempty"`
	Number                string             `bson:"number,omitempty" json:"number,omitempty"`
	IsDeleted             int                `bson:"isDeleted" json:"isDeleted"`
	CreatedOn             time.Time          `bson:"createdOn" json:"createdOn"`
}

// PropertyView is a Property annotated for one requesting user. Its Status,
// Name and Number shadow the catalog values in JSON output.
type PropertyView struct {
	Property
	Status  string  `json:"status"`
	Remark  *string `json:"remark"`
	IsSaved int     `json:"isSaved"`
	Name    string  `json:"name"`
	Number  string  `json:"number"`
}

// PropertyPage is the paginated search response.
type PropertyPage struct {
	Properties  []PropertyView `json:"properties"`
	CurrentPage int            `json:"currentPage"`
	TotalItems  int64          `json:"totalItems"`
	TotalPages  int64          `json:"totalPages"`
}

// ContactDetails is returned once a user reveals a listing's contact.
type ContactDetails struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Listing types reported by the admin counts endpoint.
const (
	TypeResidentialRent = "Residential Rent"
	TypeResidentialSell = "Residential Sell"
	TypeCommercialRent  = "Commercial Rent"
	TypeCommercialSell  = "Commercial Sell"
)

// PropertyCounts is the admin reporting snapshot.
type PropertyCounts struct {
	TodayResidentialRental  int64 `json:"todayResidentialRental"`
	TodayResidentialSell    int64 `json:"todayResidentialSell"`
	TodayCommercialRent     int64 `json:"todayCommercialRent"`
	TodayCommercialSell     int64 `json:"todayCommercialSell"`
	ActiveResidentialRental int64 `json:"activeResidentialRental"`
	ActiveResidentialSell   int64 `json:"activeResidentialSell"`
	ActiveCommercialRent    int64 `json:"activeCommercialRent"`
	ActiveCommercialSell    int64 `json:"activeCommercialSell"`
	TotalActiveProperties   int64 `json:"totalActiveProperties"`
}
