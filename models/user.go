package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email"`
	Number               string             `bson:"number" json:"number"`
	Password             string             `bson:"password" json:"-"`
	CompanyName          string             `bson:"companyName,omitempty" json:"companyName,omitempty"`
	Address              string             `bson:"address,omitempty" json:"address,omitempty"`
	Role                 string             `bson:"role,omitempty" json:"role,omitempty"`
	IsPremium            int                `bson:"isPremium" json:"isPremium"`
	Limit                int                `bson:"limit" json:"limit"`
	TotalCount           int                `bson:"totalCount" json:"totalCount"`
	WrongPassLimit       int                `bson:"wrongPassLimit" json:"wrongPassLimit"`
	SavedPropertyIDs     []string           `bson:"savedPropertyIds" json:"savedPropertyIds"`
	ContactedPropertyIDs []string           `bson:"contactedPropertyIds" json:"contactedPropertyIds"`
	ActivePlanDetails    *PlanDetails       `bson:"activePlanDetails,omitempty" json:"activePlanDetails,omitempty"`
	CreatedOn            time.Time          `bson:"createdOn" json:"createdOn"`
}

// PlanDetails describes the paid plan currently attached to a user.
type PlanDetails struct {
	OrderID   string    `bson:"orderId" json:"orderId"`
	Amount    string    `bson:"amount" json:"amount"`
	PaidOn    time.Time `bson:"paidOn" json:"paidOn"`
	ExpiredOn time.Time `bson:"expiredOn" json:"expiredOn"`
}

func (u *User) Premium() bool {
	return u != nil && u.IsPremium == 1
}

func (u *User) HasSaved(propID string) bool {
	return contains(u.SavedPropertyIDs, propID)
}

func (u *User) HasContacted(propID string) bool {
	return contains(u.ContactedPropertyIDs, propID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// UserProfile is the masked user representation returned by the details endpoint.
type UserProfile struct {
	ID                primitive.ObjectID `json:"id"`
	Name              string             `json:"name"`
	Email             string             `json:"email"`
	Number            string             `json:"number"`
	CompanyName       string             `json:"companyName,omitempty"`
	Address           string             `json:"address,omitempty"`
	IsPremium         int                `json:"isPremium"`
	ActivePlanDetails *PlanDetails       `json:"activePlanDetails,omitempty"`
	CreatedOn         time.Time          `json:"createdOn"`
}

type UserDetails struct {
	User           UserProfile   `json:"user"`
	PaymentHistory []PaidAccount `json:"paymentHistory"`
}

// LoginResult pairs the authenticated user with a bearer token.
type LoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// ClientInfo is request-scoped metadata about the calling client.
type ClientInfo struct {
	IP        string
	Browser   string
	OS        string
	Device    string
	UserAgent string
}

type DeviceDetails struct {
	Browser   string `bson:"browser" json:"browser"`
	OS        string `bson:"os" json:"os"`
	Device    string `bson:"device" json:"device"`
	UserAgent string `bson:"userAgent" json:"userAgent"`
}

type UserSession struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"userId" json:"userId"`
	IPAddress     string             `bson:"ipAddress" json:"ipAddress"`
	DeviceDetails DeviceDetails      `bson:"deviceDetails" json:"deviceDetails"`
	LoginTimes    []time.Time        `bson:"loginTimes" json:"loginTimes"`
	CreatedOn     time.Time          `bson:"createdOn" json:"createdOn"`
}
