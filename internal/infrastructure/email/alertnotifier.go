package email

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/beneficlub/backoffice/internal/domain/webhook"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

// AlertNotifier emails operators when a webhook event gives up retrying.
type AlertNotifier struct {
	service    *SMTPEmailService
	recipients []string
	location   *time.Location
	logger     logger.Interface
}

func NewAlertNotifier(service *SMTPEmailService, recipients []string, loc *time.Location, log logger.Interface) *AlertNotifier {
	if loc == nil {
		loc = time.UTC
	}
	return &AlertNotifier{
		service:    service,
		recipients: recipients,
		location:   loc,
		logger:     log,
	}
}

func (n *AlertNotifier) NotifyWebhookExhausted(ctx context.Context, ev *webhook.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	received := ev.ReceivedAt().In(n.location).Format("02/01/2006 15:04")
	subject := fmt.Sprintf("[backoffice] webhook %s %s failed after %d attempts", ev.Provider(), ev.EventType(), ev.Attempts())

	plainBody := fmt.Sprintf(`Webhook event could not be processed.

Provider:  %s
Event:     %s (%s)
Log id:    %s
Received:  %s
Attempts:  %d
Error:     %s

Fix the cause and reprocess it with POST /admin/webhooks/%s/reprocess.
`, ev.Provider(), ev.EventID(), ev.EventType(), ev.SID(), received, ev.Attempts(), ev.LastError(), ev.SID())

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Webhook event could not be processed</h2>
			<table>
				<tr><td>Provider</td><td>%s</td></tr>
				<tr><td>Event</td><td>%s (%s)</td></tr>
				<tr><td>Log id</td><td>%s</td></tr>
				<tr><td>Received</td><td>%s</td></tr>
				<tr><td>Attempts</td><td>%d</td></tr>
				<tr><td>Error</td><td><code>%s</code></td></tr>
			</table>
			<p>Fix the cause and reprocess it with <code>POST /admin/webhooks/%s/reprocess</code>.</p>
		</body>
		</html>
	`, html.EscapeString(ev.Provider().String()), html.EscapeString(ev.EventID()), html.EscapeString(ev.EventType()),
		html.EscapeString(ev.SID()), received, ev.Attempts(), html.EscapeString(ev.LastError()), html.EscapeString(ev.SID()))

	if err := n.service.sendEmail(n.recipients, subject, htmlBody, plainBody); err != nil {
		n.logger.Errorw("failed to send webhook alert",
			"webhook_sid", ev.SID(),
			"error", err,
		)
		return err
	}

	n.logger.Infow("webhook alert sent",
		"webhook_sid", ev.SID(),
		"recipients", len(n.recipients),
	)
	return nil
}
