package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/infra/logger"
)

// LogNotifier writes outbound emails to the log instead of an SMTP provider.
// Delivery is a platform concern handled outside this service; the boolean
// results still flow back to callers so responses can surface delivery
// status.
type LogNotifier struct {
	logger          *zap.Logger
	frontendBaseURL string
}

var _ port.Notifier = (*LogNotifier)(nil)

// NewLogNotifier constructs the notifier.
func NewLogNotifier(frontendBaseURL string, log *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: log, frontendBaseURL: strings.TrimRight(frontendBaseURL, "/")}
}

// SendLoginCode delivers the passwordless login link and code.
func (n *LogNotifier) SendLoginCode(_ context.Context, email, token, code string) bool {
	loginURL := fmt.Sprintf("%s/auth/verify?token=%s", n.frontendBaseURL, token)
	n.logger.Info("login code email",
		zap.String("to", logger.MaskEmail(email)),
		zap.String("login_url", loginURL),
		zap.String("code", code),
	)
	return true
}

// SendVerificationEmail delivers the email verification link.
func (n *LogNotifier) SendVerificationEmail(_ context.Context, email, token string) bool {
	verifyURL := fmt.Sprintf("%s/auth/verify-email?token=%s", n.frontendBaseURL, token)
	n.logger.Info("verification email",
		zap.String("to", logger.MaskEmail(email)),
		zap.String("verify_url", verifyURL),
	)
	return true
}

// SendInvitation delivers an organization invitation.
func (n *LogNotifier) SendInvitation(_ context.Context, email, orgName, inviterName string, roles []string, joinURL string) bool {
	n.logger.Info("invitation email",
		zap.String("to", logger.MaskEmail(email)),
		zap.String("organization", orgName),
		zap.String("inviter", inviterName),
		zap.Strings("roles", roles),
		zap.String("join_url", joinURL),
	)
	return true
}
