package models

import (
	"fmt"
	"strings"
)

// ApprovalTokenScheme prefixes every issued approval-session bearer value.
// The prefix is stamped at issuance so the verifier can dispatch on a
// declared scheme instead of guessing from the string shape.
const ApprovalTokenScheme = "apv1_"

// CredentialKind discriminates the bearer credential variants accepted by
// the API.
type CredentialKind string

const (
	// CredentialApproval is an opaque approval-session token issued by the
	// login approval flow.
	CredentialApproval CredentialKind = "approval"
	// CredentialSigned is a signed JWT issued by the password login flow.
	CredentialSigned CredentialKind = "signed"
)

// Credential is a tagged union of the two bearer schemes. Exactly one of
// ApprovalToken or SignedToken is set, matching Kind.
type Credential struct {
	Kind          CredentialKind
	ApprovalToken string
	SignedToken   string
}

// ParseCredential classifies a raw bearer value into a typed credential.
// Approval tokens must carry the issuance scheme prefix; everything else is
// treated as a signed token and left to JWT verification.
func ParseCredential(raw string) (Credential, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Credential{}, fmt.Errorf("empty credential")
	}
	if rest, ok := strings.CutPrefix(raw, ApprovalTokenScheme); ok {
		if rest == "" {
			return Credential{}, fmt.Errorf("empty approval token")
		}
		return Credential{Kind: CredentialApproval, ApprovalToken: rest}, nil
	}
	return Credential{Kind: CredentialSigned, SignedToken: raw}, nil
}

// Bearer renders the credential back into its wire form.
func (c Credential) Bearer() string {
	if c.Kind == CredentialApproval {
		return ApprovalTokenScheme + c.ApprovalToken
	}
	return c.SignedToken
}
