package sendgrid

import (
	"context"
	"fmt"
	"strings"

	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/yungbote/studyquiz-backend/internal/platform/envutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type Client interface {
	Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error)
}

type Config struct {
	APIKey           string
	Host             string
	DefaultFromEmail string
	DefaultFromName  string
}

const defaultHost = "https://api.sendgrid.com"

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		APIKey:           envutil.Secret("SENDGRID_API_KEY", log),
		Host:             envutil.String("SENDGRID_BASE_URL", defaultHost, log),
		DefaultFromEmail: envutil.String("SENDGRID_FROM_EMAIL", "no-reply@studyquiz.app", log),
		DefaultFromName:  envutil.String("SENDGRID_FROM_NAME", "StudyQuiz", log),
	}
}

// New returns (nil, nil) when no API key is configured; email is optional.
func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.APIKey == "" {
		return nil, nil
	}
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	cfg.Host = strings.TrimRight(cfg.Host, "/")
	return &client{log: log.With("service", "SendGrid"), cfg: cfg}, nil
}

type client struct {
	log *logger.Logger
	cfg Config
}

type EmailAddress struct {
	Email string
	Name  string
}

type SendEmailRequest struct {
	From    *EmailAddress
	To      EmailAddress
	Subject string
	Text    string
	HTML    string
}

type SendEmailResult struct {
	StatusCode int
	MessageID  string
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 500 {
		body = body[:500] + "..."
	}
	return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, body)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error) {
	if strings.TrimSpace(req.To.Email) == "" {
		return nil, fmt.Errorf("sendgrid: recipient required")
	}
	from := mail.NewEmail(c.cfg.DefaultFromName, c.cfg.DefaultFromEmail)
	if req.From != nil && req.From.Email != "" {
		from = mail.NewEmail(req.From.Name, req.From.Email)
	}
	msg := mail.NewSingleEmail(from, req.Subject, mail.NewEmail(req.To.Name, req.To.Email), req.Text, req.HTML)

	request := sg.GetRequest(c.cfg.APIKey, "/v3/mail/send", c.cfg.Host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(msg)
	resp, err := sg.MakeRequestWithContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("SendGrid rejected message", "status", resp.StatusCode)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	out := &SendEmailResult{StatusCode: resp.StatusCode}
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		out.MessageID = ids[0]
	}
	return out, nil
}
