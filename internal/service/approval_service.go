package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightcart/admin-api/internal/models"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
	"github.com/brightcart/admin-api/pkg/mailer"
)

// approvalTokenBytes is the entropy of an approval token; hex-encoded it
// yields 64 characters.
const approvalTokenBytes = 32

type approvalStore interface {
	Create(ctx context.Context, approval *models.LoginApproval) error
	FindByToken(ctx context.Context, token string) (*models.LoginApproval, error)
	MarkExpired(ctx context.Context, token string) (bool, error)
	Resolve(ctx context.Context, token string, status models.ApprovalStatus, decidedAt time.Time, decidedBy string) (bool, error)
	ListRecent(ctx context.Context, limit int) ([]models.LoginApproval, error)
}

type approvalNotifier interface {
	SendApprovalRequest(mail mailer.ApprovalMail) error
}

// ActionResult enumerates the outcomes of deciding a login request.
type ActionResult string

const (
	OutcomeApplied          ActionResult = "applied"
	OutcomeNotFound         ActionResult = "not_found"
	OutcomeExpired          ActionResult = "expired"
	OutcomeAlreadyProcessed ActionResult = "already_processed"
)

// ActionOutcome is the typed result of ApplyAction. Status carries the new
// status for applied outcomes and the pre-existing one for
// already-processed outcomes.
type ActionOutcome struct {
	Result ActionResult
	Status models.ApprovalStatus
}

// ApprovalConfig defines the knobs of the login approval flow.
type ApprovalConfig struct {
	TokenTTL     time.Duration
	SessionTTL   time.Duration
	BaseURL      string
	DefaultActor string
}

// ApprovalService implements the admin login approval flow: a pending
// request is created and mailed out, the requesting client polls its status,
// and whoever holds the mailed link decides it.
//
// Security note: possession of the mailed link is the sole authority to
// approve or reject; the deciding endpoint does not authenticate the actor.
// This preserves the contract of the legacy backend. The acting identity is
// still recorded, passed in by the caller and defaulted at the HTTP
// boundary.
type ApprovalService struct {
	store     approvalStore
	notifier  approvalNotifier
	validator *validator.Validate
	logger    *zap.Logger
	config    ApprovalConfig

	now func() time.Time
}

// NewApprovalService constructs an ApprovalService.
func NewApprovalService(store approvalStore, notifier approvalNotifier, validate *validator.Validate, logger *zap.Logger, config ApprovalConfig) *ApprovalService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = 10 * time.Minute
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = 24 * time.Hour
	}
	if config.DefaultActor == "" {
		config.DefaultActor = "admin"
	}
	return &ApprovalService{
		store:     store,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// CreateRequest issues a fresh approval token, persists the pending request
// and mails the decision links. A notification failure fails the whole
// operation: a pending request nobody was told about cannot be approved, so
// the caller must see a hard error rather than a token that will only ever
// expire.
func (s *ApprovalService) CreateRequest(ctx context.Context, req models.ApprovalRequestPayload) (*models.LoginApproval, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid approval request payload")
	}

	token, err := generateApprovalToken()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate approval token")
	}

	now := s.now().UTC()
	approval := &models.LoginApproval{
		Token:       token,
		Username:    req.Username,
		ClientIP:    req.IP,
		ClientAgent: req.UserAgent,
		Status:      models.ApprovalPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.config.TokenTTL),
	}

	if err := s.store.Create(ctx, approval); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to persist approval request")
	}

	mail := mailer.ApprovalMail{
		Username:    approval.Username,
		ClientIP:    approval.ClientIP,
		ClientAgent: approval.ClientAgent,
		Token:       approval.Token,
		ApproveLink: s.decisionLink(approval.Token, models.ActionApprove),
		RejectLink:  s.decisionLink(approval.Token, models.ActionReject),
	}
	if err := s.notifier.SendApprovalRequest(mail); err != nil {
		// The pending row stays behind; it self-expires and keeps the
		// audit trail intact.
		s.logger.Warn("approval request orphaned after notification failure",
			zap.String("username", approval.Username), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrNotification.Code, appErrors.ErrNotification.Status, "failed to deliver approval notification")
	}

	return approval, nil
}

// GetStatus reports the effective status of a request. Expiry is
// time-relative, so a still-pending row past its window is moved to expired
// before answering; losing that write to a concurrent decision is a no-op
// and the winner's status is reported instead. Safe to call any number of
// times.
func (s *ApprovalService) GetStatus(ctx context.Context, token string) (*models.ApprovalStatusResponse, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "request token is required")
	}

	approval, err := s.store.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown request token")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load approval request")
	}

	status := approval.Status
	if status == models.ApprovalPending && approval.ExpiredBy(s.now()) {
		won, err := s.store.MarkExpired(ctx, token)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to expire approval request")
		}
		if won {
			status = models.ApprovalExpired
		} else {
			// A concurrent decision won the race; report what it wrote.
			refreshed, err := s.store.FindByToken(ctx, token)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to reload approval request")
			}
			status = refreshed.Status
		}
	}

	res := &models.ApprovalStatusResponse{Status: status, Username: approval.Username}
	if status == models.ApprovalApproved {
		// The polling client authenticates with the prefixed bearer, never
		// the raw request token.
		res.AccessToken = models.Credential{Kind: models.CredentialApproval, ApprovalToken: token}.Bearer()
	}
	return res, nil
}

// ApplyAction decides a pending request. Expiry takes precedence over the
// action, and the conditional update in the store guarantees at most one
// transition out of pending; a caller losing that race gets an
// already-processed outcome rather than an error.
func (s *ApprovalService) ApplyAction(ctx context.Context, token string, action models.ApprovalAction, actor string) (*ActionOutcome, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "request token is required")
	}
	if !action.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported action %q", action))
	}
	if actor == "" {
		actor = s.config.DefaultActor
	}

	approval, err := s.store.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &ActionOutcome{Result: OutcomeNotFound}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load approval request")
	}

	now := s.now().UTC()
	if approval.Status == models.ApprovalExpired || approval.ExpiredBy(now) {
		if approval.Status == models.ApprovalPending {
			if _, err := s.store.MarkExpired(ctx, token); err != nil {
				s.logger.Warn("lazy expiry failed during action", zap.Error(err))
			}
		}
		return &ActionOutcome{Result: OutcomeExpired, Status: models.ApprovalExpired}, nil
	}
	if approval.Status != models.ApprovalPending {
		return &ActionOutcome{Result: OutcomeAlreadyProcessed, Status: approval.Status}, nil
	}

	newStatus := models.ApprovalApproved
	if action == models.ActionReject {
		newStatus = models.ApprovalRejected
	}

	won, err := s.store.Resolve(ctx, token, newStatus, now, actor)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to apply approval decision")
	}
	if !won {
		refreshed, err := s.store.FindByToken(ctx, token)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to reload approval request")
		}
		if refreshed.Status == models.ApprovalExpired {
			return &ActionOutcome{Result: OutcomeExpired, Status: models.ApprovalExpired}, nil
		}
		return &ActionOutcome{Result: OutcomeAlreadyProcessed, Status: refreshed.Status}, nil
	}

	s.logger.Info("login approval decided",
		zap.String("username", approval.Username),
		zap.String("status", string(newStatus)),
		zap.String("actor", actor))

	return &ActionOutcome{Result: OutcomeApplied, Status: newStatus}, nil
}

// DeriveSession turns an approved request token into a session principal.
// Read-only; valid until SessionTTL past the approval instant.
func (s *ApprovalService) DeriveSession(ctx context.Context, token string) (*models.SessionPrincipal, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session token required")
	}

	approval, err := s.store.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load approval request")
	}

	if approval.Status != models.ApprovalApproved || approval.ApprovedAt == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "login request was not approved")
	}

	expiresAt := approval.ApprovedAt.Add(s.config.SessionTTL)
	if !s.now().UTC().Before(expiresAt) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "approval session expired")
	}

	return &models.SessionPrincipal{
		Username:  approval.Username,
		Role:      models.RoleAdmin,
		ExpiresAt: expiresAt,
	}, nil
}

// ListRecent returns the latest login requests for the admin audit view.
// Tokens are live credentials and are blanked before the rows leave the
// service.
func (s *ApprovalService) ListRecent(ctx context.Context, limit int) ([]models.LoginApproval, error) {
	approvals, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list approval requests")
	}
	for i := range approvals {
		approvals[i].Token = ""
	}
	return approvals, nil
}

func (s *ApprovalService) decisionLink(token string, action models.ApprovalAction) string {
	return fmt.Sprintf("%s/api/v1/auth/approve-login?token=%s&action=%s", s.config.BaseURL, token, action)
}

func generateApprovalToken() (string, error) {
	buf := make([]byte, approvalTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
