package models

import "time"

// ApprovalStatus is the lifecycle state of a login approval request.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
	ApprovalExpired  ApprovalStatus = "expired"
)

// ApprovalAction is the decision applied to a pending request.
type ApprovalAction string

const (
	ActionApprove ApprovalAction = "approve"
	ActionReject  ApprovalAction = "reject"
)

// Valid reports whether the action is one of the supported decisions.
func (a ApprovalAction) Valid() bool {
	return a == ActionApprove || a == ActionReject
}

// LoginApproval is one admin login approval attempt. Rows are never deleted;
// the table doubles as the login audit trail. Status transitions out of
// pending happen at most once, and expired is only ever reached from pending
// by the passage of time.
type LoginApproval struct {
	ID          string         `db:"id" json:"id"`
	Token       string         `db:"token" json:"token"`
	Username    string         `db:"username" json:"username"`
	ClientIP    string         `db:"client_ip" json:"client_ip"`
	ClientAgent string         `db:"client_agent" json:"client_agent"`
	Status      ApprovalStatus `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	ExpiresAt   time.Time      `db:"expires_at" json:"expires_at"`
	ApprovedAt  *time.Time     `db:"approved_at" json:"approved_at,omitempty"`
	ApprovedBy  *string        `db:"approved_by" json:"approved_by,omitempty"`
}

// ExpiredBy reports whether the request has outlived its window at the given
// instant. Stored status is not consulted; expiry is time-relative.
func (a LoginApproval) ExpiredBy(now time.Time) bool {
	return now.UTC().After(a.ExpiresAt.UTC())
}

// SessionPrincipal is the identity derived from an approved login request.
type SessionPrincipal struct {
	Username  string    `json:"username"`
	Role      UserRole  `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
