package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brightcart/admin-api/internal/models"
	"github.com/brightcart/admin-api/internal/service"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
	"github.com/brightcart/admin-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth and approval services.
type AuthHandler struct {
	auth      *service.AuthService
	approvals *service.ApprovalService
	metrics   *service.MetricsService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(auth *service.AuthService, approvals *service.ApprovalService, metrics *service.MetricsService) *AuthHandler {
	return &AuthHandler{auth: auth, approvals: approvals, metrics: metrics}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate admin user by username and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.PasswordLoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.PasswordLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// RequestApproval godoc
// @Summary Request login approval
// @Description Start an email-approved login flow and return a polling token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.ApprovalRequestPayload true "Approval request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /auth/request-approval [post]
func (h *AuthHandler) RequestApproval(c *gin.Context) {
	var req models.ApprovalRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approval request payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	approval, err := h.approvals.CreateRequest(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, models.ApprovalRequestResponse{
		RequestToken: approval.Token,
		ExpiresAt:    approval.ExpiresAt,
	})
}

// CheckStatus godoc
// @Summary Poll approval status
// @Description Return the current status of a login approval request
// @Tags Authentication
// @Produce json
// @Param token query string true "Request token"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auth/check-status [get]
func (h *AuthHandler) CheckStatus(c *gin.Context) {
	status, err := h.approvals.GetStatus(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// ApproveLogin godoc
// @Summary Decide a login request
// @Description Approve or reject a pending login via the mailed link
// @Tags Authentication
// @Produce json
// @Param token query string true "Request token"
// @Param action query string true "approve or reject"
// @Param actor query string false "Acting identity"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auth/approve-login [get]
func (h *AuthHandler) ApproveLogin(c *gin.Context) {
	token := c.Query("token")
	action := models.ApprovalAction(c.Query("action"))
	actor := c.Query("actor")

	outcome, err := h.approvals.ApplyAction(c.Request.Context(), token, action, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordApprovalAction(string(action), string(outcome.Result))

	switch outcome.Result {
	case service.OutcomeApplied:
		response.JSON(c, http.StatusOK, gin.H{
			"message": fmt.Sprintf("login request %s", outcome.Status),
			"status":  outcome.Status,
		}, nil)
	case service.OutcomeNotFound:
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown request token"))
	case service.OutcomeExpired:
		response.Error(c, appErrors.Clone(appErrors.ErrConflict, "login request has expired"))
	case service.OutcomeAlreadyProcessed:
		response.Error(c, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("login request was already %s", outcome.Status)))
	default:
		response.Error(c, appErrors.ErrInternal)
	}
}

// RecentApprovals godoc
// @Summary List recent login requests
// @Description Audit view over the login approval trail
// @Tags Authentication
// @Produce json
// @Param limit query int false "Maximum rows"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/approvals [get]
func (h *AuthHandler) RecentApprovals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	approvals, err := h.approvals.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, approvals, nil)
}

// Me godoc
// @Summary Get current user
// @Description Returns the authenticated principal
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"user": models.UserInfo{
			ID:       claims.UserID,
			Username: claims.Username,
			FullName: claims.FullName,
			Role:     claims.Role,
		},
		"credential": claims.Source,
	}, nil)
}
