package port

import "context"

// Notifier delivers emails to users. Delivery failure is reported but never
// aborts the calling operation; the token remains redeemable either way.
type Notifier interface {
	SendLoginCode(ctx context.Context, email, token, code string) bool
	SendVerificationEmail(ctx context.Context, email, token string) bool
	SendInvitation(ctx context.Context, email, orgName, inviterName string, roles []string, joinURL string) bool
}
