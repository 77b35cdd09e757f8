package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/e-surat-api/pkg/jobs"
)

type mailSender interface {
	Enabled() bool
	Send(subject, body string) error
}

// NewMailDispatcher returns the queue handler that delivers notification
// mail. Delivery is best-effort: missing credentials skip the send silently
// and SMTP failures are logged, never propagated to the notification writer.
func NewMailDispatcher(client mailSender, logger *zap.Logger) jobs.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(MailPayload)
		if !ok {
			logger.Warn("mail job with unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		if client == nil || !client.Enabled() {
			logger.Info("smtp not configured, skipping email", zap.String("subject", payload.Subject))
			return nil
		}
		if err := client.Send(payload.Subject, payload.Body); err != nil {
			logger.Warn("email delivery failed", zap.String("subject", payload.Subject), zap.Error(err))
			return fmt.Errorf("send notification mail: %w", err)
		}
		return nil
	}
}
