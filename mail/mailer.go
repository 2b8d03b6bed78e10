// Package mail sends account notification emails over SMTP.
package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/sbercal/sbercal/core"
	gomail "gopkg.in/gomail.v2"
)

const welcomeSubject = "Добро пожаловать в СберКалендарь!"

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<html>
<body>
<p>Здравствуйте, {{.FullName}}!</p>
<p>Для вас создана учётная запись в ассистенте IT-мероприятий «СберКалендарь».</p>
<table>
<tr><td>Должность:</td><td>{{.Position}}</td></tr>
<tr><td>Логин:</td><td><b>{{.Login}}</b></td></tr>
<tr><td>Пароль:</td><td><b>{{.Password}}</b></td></tr>
</table>
{{if .AppURL}}<p>Адрес сервиса: <a href="{{.AppURL}}">{{.AppURL}}</a></p>
{{end}}<p>Пожалуйста, смените пароль после первого входа.</p>
</body>
</html>`))

// positionName maps the account type to its Russian position title.
func positionName(userType core.UserType) string {
	switch userType {
	case core.UserTypeAdmin:
		return "Администратор"
	case core.UserTypeManager:
		return "Руководитель"
	default:
		return "Сотрудник"
	}
}

// Mailer sends notification emails through an SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	appURL string
	logger *slog.Logger
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithAppURL adds a link to the assistant in notification emails.
func WithAppURL(url string) Option {
	return func(m *Mailer) {
		m.appURL = url
	}
}

// NewMailer creates a mailer for the given SMTP relay.
func NewMailer(host string, port int, login, password, from string, opts ...Option) *Mailer {
	m := &Mailer{
		dialer: gomail.NewDialer(host, port, login, password),
		from:   from,
		logger: slog.Default().With("component", "mailer"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SendWelcome emails freshly generated credentials to a new user.
func (m *Mailer) SendWelcome(to, fullName string, userType core.UserType, login, password string) error {
	var body bytes.Buffer
	err := welcomeTemplate.Execute(&body, map[string]string{
		"FullName": fullName,
		"Position": positionName(userType),
		"Login":    login,
		"Password": password,
		"AppURL":   m.appURL,
	})
	if err != nil {
		return fmt.Errorf("rendering welcome email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", welcomeSubject)
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending welcome email to %s: %w", to, err)
	}

	m.logger.Info("welcome email sent", "to", to, "login", login)
	return nil
}
