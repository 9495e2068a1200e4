package notification

import (
	"context"
	"errors"
	"io"

	"submission-service/internal/config"

	"gopkg.in/gomail.v2"
)

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// SubmissionEmail is the head-office notice sent after documents are filed.
type SubmissionEmail struct {
	SerialNumber string
	ClientName   string
	Attachments  []Attachment
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailService struct {
	sender     sender
	from       string
	headOffice string
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &EmailService{sender: d, from: cfg.Username, headOffice: cfg.HeadOfficeEmail}
}

func (e *EmailService) SendSubmission(ctx context.Context, email SubmissionEmail) error {
	if e.headOffice == "" {
		return errors.New("head office email is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := e.buildSubmissionMessage(email)
	if err != nil {
		return err
	}
	return e.sender.DialAndSend(m)
}

func (e *EmailService) buildSubmissionMessage(email SubmissionEmail) (*gomail.Message, error) {
	html, err := SubmissionHTML(email)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", e.headOffice)
	m.SetHeader("Subject", SubmissionSubject(email.SerialNumber, email.ClientName))
	m.SetBody("text/plain", SubmissionBody(email.SerialNumber, email.ClientName))
	m.AddAlternative("text/html", html)

	for _, a := range email.Attachments {
		content := a.Content
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}))
		}
		m.Attach(a.Filename, settings...)
	}
	return m, nil
}
