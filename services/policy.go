package services

import (
	"time"

	"github.com/citynect/property-backend/models"
)

// Policy carries the business tunables the services read.
type Policy struct {
	DefaultPageSize int
	MaxPageSize     int
	// ExcludedStatuses hide a property from the user who assigned them.
	ExcludedStatuses []string
	// PrivilegedUserID sees a synthesized number for contacted listings.
	PrivilegedUserID string
	Location         *time.Location
	TokenTTL         time.Duration

	DemoContactLimit            int
	PremiumContactLimit         int
	DailyContactLimit           int
	PrivilegedDailyContactLimit int
	WrongPassLimit              int
}

func DefaultPolicy() Policy {
	return Policy{
		DefaultPageSize:             10,
		MaxPageSize:                 25,
		ExcludedStatuses:            models.DefaultExcludedStatuses(),
		PrivilegedUserID:            "67128ea2d6da233a1af20f30",
		Location:                    time.UTC,
		TokenTTL:                    24 * time.Hour,
		DemoContactLimit:            50,
		PremiumContactLimit:         50,
		DailyContactLimit:           100,
		PrivilegedDailyContactLimit: 25,
		WrongPassLimit:              10,
	}
}

func (p Policy) excludedSet() map[string]bool {
	set := make(map[string]bool, len(p.ExcludedStatuses))
	for _, s := range p.ExcludedStatuses {
		set[s] = true
	}
	return set
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}
