package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AccountActive  = "Active"
	AccountExpired = "Expired"

	PaymentPending = "Pending"
	PaymentSuccess = "Success"

	// NoRepeatDemo rejects a demo for a number that already had one.
	NoRepeatDemo = "No Repeat Demo"
)

type DemoAccount struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"userId" json:"userId"`
	Name          string             `bson:"name" json:"name"`
	Number        string             `bson:"number" json:"number"`
	ActivatedBy   string             `bson:"activatedBy,omitempty" json:"activatedBy,omitempty"`
	ActiveDays    int                `bson:"activeDays" json:"activeDays"`
	Status        string             `bson:"status" json:"status"`
	PaymentStatus string             `bson:"paymentStatus" json:"paymentStatus"`
	Remark        string             `bson:"remark,omitempty" json:"remark,omitempty"`
	ExpiredDate   time.Time          `bson:"expiredDate" json:"expiredDate"`
	CreatedOn     time.Time          `bson:"createdOn" json:"createdOn"`
}

type PaidAccount struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           string             `bson:"userId" json:"userId"`
	OrderID          string             `bson:"orderId" json:"orderId"`
	Name             string             `bson:"name" json:"name"`
	Number           string             `bson:"number" json:"number"`
	AgentName        string             `bson:"agentName,omitempty" json:"agentName,omitempty"`
	Amount           string             `bson:"amount" json:"amount"`
	DurationInMonth  int                `bson:"durationInMonth" json:"durationInMonth"`
	PaymentMode      string             `bson:"paymentMode,omitempty" json:"paymentMode,omitempty"`
	PaidTo           string             `bson:"paidTo,omitempty" json:"paidTo,omitempty"`
	Status           string             `bson:"status" json:"status"`
	SettlementStatus bool               `bson:"settlementStatus" json:"settlementStatus"`
	UpdatedBy        string             `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	Remark           string             `bson:"remark,omitempty" json:"remark,omitempty"`
	UpdatedOn        *time.Time         `bson:"updatedOn,omitempty" json:"updatedOn,omitempty"`
	ExpiredDate      time.Time          `bson:"expiredDate" json:"expiredDate"`
	CreatedOn        time.Time          `bson:"createdOn" json:"createdOn"`
}

// PasswordUpdateRequest audits an admin-initiated password reset.
type PasswordUpdateRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId"`
	Number    string             `bson:"number" json:"number"`
	AdminID   string             `bson:"adminId" json:"adminId"`
	Reason    string             `bson:"reason" json:"reason"`
	CreatedOn time.Time          `bson:"createdOn" json:"createdOn"`
}
