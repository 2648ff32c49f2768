package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

// SMTPConfig is read once at boot.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// From defaults to User.
	From string
}

type deliverFunc func(ctx context.Context, cfg SMTPConfig, from string, to []string, msg []byte) error

// SMTPNotifier renders the confirmation as HTML and relays it through the
// configured server, upgrading to TLS when the server offers STARTTLS.
type SMTPNotifier struct {
	cfg     SMTPConfig
	deliver deliverFunc
	now     func() time.Time
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, deliver: deliverSMTP, now: time.Now}
}

const subjectPrefix = "Confirmação de Registro - "

var bodyTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #2b6cb0;">Olá, {{.UserName}}!</h2>
  <p>Seu registro da dose {{.DoseNumber}} da vacina <strong>{{.VaccineName}}</strong> em <strong>{{.Date}}</strong> foi adicionado com sucesso ao sistema ImuneTrack.</p>
  <p>Mantenha seu histórico vacinal sempre atualizado!</p>
  <hr style="border:none;border-top:1px solid #ccc;">
  <small style="color: #555;">Este é um e-mail automático. Não responda.</small>
</body>
</html>
`))

func (n *SMTPNotifier) from() string {
	if n.cfg.From != "" {
		return n.cfg.From
	}
	return n.cfg.User
}

// render builds the full RFC 5322 message.
func (n *SMTPNotifier) render(c DoseConfirmation) ([]byte, error) {
	var body bytes.Buffer
	err := bodyTemplate.Execute(&body, struct {
		UserName    string
		VaccineName string
		DoseNumber  int
		Date        string
	}{c.UserName, c.VaccineName, c.DoseNumber, c.Date.BR()})
	if err != nil {
		return nil, fmt.Errorf("render confirmation: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", n.from())
	fmt.Fprintf(&msg, "To: %s\r\n", c.Recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subjectPrefix+c.VaccineName))
	fmt.Fprintf(&msg, "Date: %s\r\n", n.now().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	return msg.Bytes(), nil
}

func (n *SMTPNotifier) SendDoseConfirmation(ctx context.Context, c DoseConfirmation) error {
	msg, err := n.render(c)
	if err != nil {
		return err
	}
	if err := n.deliver(ctx, n.cfg, n.from(), []string{c.Recipient}, msg); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

// deliverSMTP is smtp.SendMail with the dial and the whole exchange bounded
// by ctx.
func deliverSMTP(ctx context.Context, cfg SMTPConfig, from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
			return err
		}
	}
	if cfg.User != "" {
		if err := c.Auth(smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
