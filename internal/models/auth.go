package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PasswordLoginRequest holds credentials for the direct password login path.
type PasswordLoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued signed token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// ApprovalRequestPayload starts a login approval flow.
type ApprovalRequestPayload struct {
	Username  string `json:"username" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// ApprovalRequestResponse returns the polling token for a new approval flow.
type ApprovalRequestResponse struct {
	RequestToken string    `json:"request_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ApprovalStatusResponse is returned to polling clients. AccessToken carries
// the scheme-prefixed session bearer once the request is approved; it is the
// only place that credential is ever issued.
type ApprovalStatusResponse struct {
	Status      ApprovalStatus `json:"status"`
	Username    string         `json:"username,omitempty"`
	AccessToken string         `json:"access_token,omitempty"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`
}

// JWTClaims represents the JWT payload for signed session tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Username string   `json:"username"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// AuthClaims is the principal attached to the request context after bearer
// verification, regardless of which credential scheme was presented.
type AuthClaims struct {
	UserID   string
	Username string
	FullName string
	Role     UserRole
	Source   CredentialKind
}
