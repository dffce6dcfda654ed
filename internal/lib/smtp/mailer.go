package smtp

import (
	"fmt"
	"mime"
	"strings"
)

var headerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// headerValue убирает переводы строк, чтобы значение не порождало новых заголовков.
func headerValue(s string) string {
	return headerBreaks.Replace(s)
}

// Mailer отправляет текстовые письма через TransportInterface.
type Mailer struct {
	transport TransportInterface
}

// NewMailer создаёт Mailer.
func NewMailer(transport TransportInterface) *Mailer {
	return &Mailer{transport: transport}
}

// Send отправляет одно письмо получателям to.
func (m *Mailer) Send(to []string, subject, body string) error {
	const op = "smtp.Send"
	if len(to) == 0 {
		return nil
	}
	from := m.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + headerValue(from),
		"To: " + headerValue(strings.Join(to, ", ")),
		"Subject: " + mime.QEncoding.Encode("utf-8", headerValue(subject)),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	client, err := m.transport.Connect()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("%s: mail from: %w", op, err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("%s: rcpt to %s: %w", op, addr, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: data: %w", op, err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("%s: write body: %w", op, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%s: close body: %w", op, err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("%s: quit: %w", op, err)
	}
	return nil
}
