package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brightcart/admin-api/internal/models"
	"github.com/brightcart/admin-api/internal/service"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
	"github.com/brightcart/admin-api/pkg/response"
)

// ContextUserKey is the gin context key storing the authenticated principal.
const ContextUserKey = "currentUser"

// Auth protects routes by requiring a valid bearer credential. Both schemes
// are accepted: approval-session tokens carry the issuance prefix and are
// resolved against the approval store, everything else is verified as a
// signed JWT. The scheme is read off the credential itself, never inferred
// from how the string looks.
func Auth(authService *service.AuthService, approvalService *service.ApprovalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerValue(c)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing or malformed authorization header"))
			c.Abort()
			return
		}

		cred, err := models.ParseCredential(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid credential"))
			c.Abort()
			return
		}

		claims, err := resolveCredential(c, cred, authService, approvalService)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

func resolveCredential(c *gin.Context, cred models.Credential, authService *service.AuthService, approvalService *service.ApprovalService) (*models.AuthClaims, error) {
	switch cred.Kind {
	case models.CredentialApproval:
		principal, err := approvalService.DeriveSession(c.Request.Context(), cred.ApprovalToken)
		if err != nil {
			return nil, err
		}
		return &models.AuthClaims{
			Username: principal.Username,
			Role:     principal.Role,
			Source:   models.CredentialApproval,
		}, nil
	case models.CredentialSigned:
		jwtClaims, err := authService.ValidateToken(cred.SignedToken)
		if err != nil {
			return nil, err
		}
		return &models.AuthClaims{
			UserID:   jwtClaims.UserID,
			Username: jwtClaims.Username,
			FullName: jwtClaims.FullName,
			Role:     jwtClaims.Role,
			Source:   models.CredentialSigned,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unsupported credential scheme")
	}
}

func bearerValue(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
