package email

// SMTPConfig собирается из секции email конфига приложения.
// UseTLS с портом 465 включает implicit TLS, на других портах работает STARTTLS.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

func (c *SMTPConfig) implicitTLS() bool {
	return c.UseTLS && c.Port == 465
}
