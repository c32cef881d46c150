package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexFloat decodes a JSON number or numeric string. Zero means "not set",
// matching clients that send 0 or "" for an empty range bound.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*f = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) IsSet() bool { return f != 0 }

// FilterRequest enumerates every recognised property search key.
type FilterRequest struct {
	UserID         string    `json:"userId"`
	Type           string    `json:"type"`
	Location       string    `json:"location"`
	PriceMin       FlexFloat `json:"priceMin"`
	PriceMax       FlexFloat `json:"priceMax"`
	Search         string    `json:"search"`
	Areas          []string  `json:"areas"`
	BHKs           []string  `json:"bhks"`
	FurnishedTypes []string  `json:"furnishedTypes"`
	SubType        []string  `json:"subType"`
	MinRent        FlexFloat `json:"minRent"`
	MaxRent        FlexFloat `json:"maxRent"`
	MinSqFt        FlexFloat `json:"minsqFt"`
	MaxSqFt        FlexFloat `json:"maxsqFt"`
	Amenities      []string  `json:"amenities"`
	Status         string    `json:"status"`
	ListedOn       string    `json:"listedOn"`
}

// UserPropertyRequest carries a (user, property) pair for save and contact.
type UserPropertyRequest struct {
	UserID string `json:"userId"`
	PropID string `json:"propId"`
}

type StatusChangeRequest struct {
	PropID    string `json:"propId"`
	UserID    string `json:"userId"`
	NewStatus string `json:"newStatus"`
}

type RemarkRequest struct {
	UserID string `json:"userId"`
	PropID string `json:"propId"`
	Remark string `json:"remark"`
}

type SuggestionRequest struct {
	UserID   string `json:"userId"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Number      string `json:"number"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
}

type LoginRequest struct {
	Number   string `json:"number"`
	Password string `json:"password"`
}

type DemoAccountRequest struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	ActivatedBy string `json:"activatedBy"`
	ActiveDays  int    `json:"activeDays"`
	RepeatDemo  string `json:"repeatDemo"`
}

type PremiumRequest struct {
	Number           string `json:"number"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	CompanyName      string `json:"companyName"`
	Address          string `json:"address"`
	AgentName        string `json:"agentName"`
	DurationInMonth  int    `json:"durationInMonth"`
	Amount           string `json:"amount"`
	PaymentMode      string `json:"paymentMode"`
	TransferTo       string `json:"transferTO"`
	SettlementStatus bool   `json:"settlementStatus"`
	AdminID          string `json:"adminId"`
}

type AdminPasswordRequest struct {
	Number   string `json:"number"`
	Password string `json:"password"`
	AdminID  string `json:"adminId"`
	Reason   string `json:"reason"`
}

type LifecycleRequest struct {
	Status string `json:"status"`
}
