package mailer

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendConversationExport(toEmail, title, markdown string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

// SendConversationExport mails the rendered transcript as a Markdown
// attachment with a short HTML body.
func (s *emailService) SendConversationExport(toEmail, title, markdown string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Chat export: %s", title))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your conversation export</h2>
			<p>The transcript of <strong>%s</strong> is attached as Markdown.</p>
			<p>If you didn't request this, please ignore this email.</p>
		</div>
	`, title)

	m.SetBody("text/html", body)
	m.Attach("conversation.md", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write([]byte(markdown))
		return err
	}))

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send export to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Export sent to %s\n", toEmail)
	return nil
}
