package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCredentialApprovalScheme(t *testing.T) {
	cred, err := ParseCredential("apv1_deadbeef")
	require.NoError(t, err)
	assert.Equal(t, CredentialApproval, cred.Kind)
	assert.Equal(t, "deadbeef", cred.ApprovalToken)
	assert.Equal(t, "apv1_deadbeef", cred.Bearer())
}

func TestParseCredentialSignedFallback(t *testing.T) {
	// Anything without the approval prefix is handed to JWT verification,
	// even strings that look like hex tokens.
	cred, err := ParseCredential("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	require.NoError(t, err)
	assert.Equal(t, CredentialSigned, cred.Kind)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9.payload.sig", cred.SignedToken)

	cred, err = ParseCredential("deadbeefdeadbeef")
	require.NoError(t, err)
	assert.Equal(t, CredentialSigned, cred.Kind)
}

func TestParseCredentialRejectsEmpty(t *testing.T) {
	_, err := ParseCredential("")
	require.Error(t, err)

	_, err = ParseCredential("   ")
	require.Error(t, err)

	_, err = ParseCredential("apv1_")
	require.Error(t, err)
}
