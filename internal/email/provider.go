package email

import "context"

// Provider - транспорт писем. SMTPProvider для работы, LogProvider когда почта выключена.
type Provider interface {
	Send(ctx context.Context, email *Email) error
	// SendTemplate рендерит templateName и отправляет результат как HTML
	SendTemplate(ctx context.Context, to []string, subject string, templateName string, data TemplateData) error
}

// TemplateRenderer реализует TemplateManager
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}
