package domain

import (
	"math"
	"time"
)

// SubscriptionStatus represents the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPending  SubscriptionStatus = "pending"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

// Plan is the lightweight plan summary embedded in a subscription.
type Plan struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	PriceMonthly float64 `json:"price_monthly"`
	MaxSeats     int     `json:"max_seats"`
}

// Subscription is a user's entitlement record. Status is the raw stored
// value; the effective status at any instant comes from ComputedStatus.
type Subscription struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	PlanID    string             `json:"plan_id"`
	Status    SubscriptionStatus `json:"status"`
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	Plan      *Plan              `json:"plan,omitempty"`
}

// ComputedStatus derives the effective status at now: a subscription stored
// as active whose end date has passed reads as expired. All other statuses
// pass through unchanged.
func (s *Subscription) ComputedStatus(now time.Time) SubscriptionStatus {
	if s.Status == SubscriptionActive && !s.EndDate.IsZero() && !now.Before(s.EndDate) {
		return SubscriptionExpired
	}
	return s.Status
}

// RemainingDays returns the whole days left until the subscription's end
// date, or nil when the subscription has no end date. Never negative.
func (s *Subscription) RemainingDays(now time.Time) *int {
	if s.EndDate.IsZero() {
		return nil
	}
	days := int(math.Ceil(s.EndDate.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return &days
}
