package email

import (
	"context"

	"jobportal_backend/internal/logger"
)

// LogProvider пишет письма в лог вместо отправки.
// Используется, когда SMTP не настроен (локальная разработка, тесты).
type LogProvider struct {
	renderer TemplateRenderer
}

func NewLogProvider(renderer TemplateRenderer) *LogProvider {
	return &LogProvider{renderer: renderer}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	logger.CtxInfo(ctx, "Email (not sent, SMTP disabled)",
		"to", email.To,
		"subject", email.Subject,
		"body_size", len(email.Body)+len(email.HTMLBody),
	)
	return nil
}

func (p *LogProvider) SendTemplate(ctx context.Context, to []string, subject string, templateName string, data TemplateData) error {
	body := ""
	if p.renderer != nil {
		rendered, err := p.renderer.Render(templateName, data)
		if err != nil {
			return err
		}
		body = rendered
	}
	return p.Send(ctx, &Email{To: to, Subject: subject, HTMLBody: body})
}
