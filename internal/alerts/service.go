package alerts

import (
	"context"
	"log/slog"

	"github.com/lumora-health/lumora-backend/internal/database"
	"github.com/lumora-health/lumora-backend/internal/ml"
	"github.com/lumora-health/lumora-backend/internal/monitoring"
)

// Mailer dispatches alert emails. Implementations must treat delivery as
// best-effort; the service never fails a scoring request over email.
type Mailer interface {
	SendAlertEmail(ctx context.Context, toEmail, userName string, level ml.RiskLevel, score float64, recommendation string) error
}

// Service turns alert decisions into persisted alerts, notifications and
// emails.
type Service struct {
	repo         *database.Repository
	policy       *Policy
	mailer       Mailer
	emailEnabled bool
	logger       *monitoring.Logger
	metrics      *monitoring.Metrics
}

// NewService creates an alert service. mailer may be nil when email dispatch
// is not configured.
func NewService(repo *database.Repository, policy *Policy, mailer Mailer, emailEnabled bool, logger *monitoring.Logger, metrics *monitoring.Metrics) *Service {
	return &Service{
		repo:         repo,
		policy:       policy,
		mailer:       mailer,
		emailEnabled: emailEnabled,
		logger:       logger,
		metrics:      metrics,
	}
}

// Policy exposes the decision policy for callers that only need the pure
// predicate.
func (s *Service) Policy() *Policy {
	return s.policy
}

// ProcessRiskAlert evaluates a fresh risk result and, when warranted,
// persists an alert record, raises an in-app notification and emails the
// user and their emergency contact. All failures are logged and never
// propagate: the risk result that triggered the alert is already committed
// and must not be rolled back over notification problems.
func (s *Service) ProcessRiskAlert(ctx context.Context, user *database.User, level ml.RiskLevel, score float64, recommendation string) bool {
	decision := s.policy.Decide(level, score)
	if !decision.ShouldAlert {
		return false
	}

	message := FormatAlertMessage(level, score, user.FullName)

	alert, err := s.repo.CreateAlert(user.ID, "high_risk", decision.Severity, message)
	if err != nil {
		slog.Error("failed to persist risk alert", "user_id", user.ID, "error", err)
		return false
	}

	if _, err := s.repo.CreateNotification(user.ID, "alert", "High risk assessment", recommendation); err != nil {
		slog.Error("failed to create alert notification", "user_id", user.ID, "error", err)
	}

	emailSent := false
	if s.emailEnabled && s.mailer != nil {
		emailSent = s.dispatchEmails(ctx, user, alert.AlertID, level, score, recommendation)
	}

	s.metrics.IncrementAlert()
	s.logger.AlertLogger(user.ID, decision.Severity, emailSent)
	return true
}

func (s *Service) dispatchEmails(ctx context.Context, user *database.User, alertID int64, level ml.RiskLevel, score float64, recommendation string) bool {
	sent := false

	if user.Email != "" {
		if err := s.mailer.SendAlertEmail(ctx, user.Email, user.FullName, level, score, recommendation); err != nil {
			slog.Warn("failed to send alert email to user", "user_id", user.ID, "error", err)
		} else {
			sent = true
		}
	}

	contact, err := s.repo.GetEmergencyContact(user.ID)
	if err != nil {
		slog.Warn("failed to load emergency contact", "user_id", user.ID, "error", err)
	} else if contact != nil {
		if err := s.mailer.SendAlertEmail(ctx, contact.Email, user.FullName, level, score, recommendation); err != nil {
			slog.Warn("failed to send alert email to emergency contact", "user_id", user.ID, "error", err)
		} else {
			sent = true
		}
	}

	if sent {
		if err := s.repo.MarkAlertEmailSent(alertID); err != nil {
			slog.Warn("failed to mark alert email sent", "alert_id", alertID, "error", err)
		}
	}
	return sent
}
