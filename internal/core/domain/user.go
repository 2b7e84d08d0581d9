package domain

import "time"

const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleBroker  = "broker"
)

// User models an account in the system. CompanyID scopes the user to a
// tenant; CreatedBy points at the owning account for invited team members
// (empty for seat holders) and drives the subscription ownership cascade.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          string    `json:"role,omitempty"`
	CompanyID     string    `json:"company_id,omitempty"`
	Active        bool      `json:"active"`
	EmailVerified bool      `json:"email_verified"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AccountState is the cached projection the account validator works from:
// the account plus its resolved subscription (nil when the ownership cascade
// found none — a cacheable fact in its own right).
type AccountState struct {
	User         *User         `json:"user"`
	Subscription *Subscription `json:"subscription"`
	CachedAt     time.Time     `json:"cached_at"`
}
