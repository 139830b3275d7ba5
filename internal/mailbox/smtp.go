package mailbox

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"mailtriage/internal/config"
)

const dialTimeout = 30 * time.Second

// Sender delivers reply mail over SMTP.
type Sender struct {
	host     string
	port     int
	username string
	password string
	from     string
	log      *zap.Logger
}

func NewSender(cfg config.SMTPConfig, log *zap.Logger) *Sender {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Sender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     from,
		log:      log,
	}
}

// ReplySubject prefixes "Re: " unless the subject already carries it.
func ReplySubject(subject string) string {
	if strings.HasPrefix(subject, "Re:") {
		return subject
	}
	return "Re: " + subject
}

// SendReply sends a plain-text reply. The subject gains a "Re: " prefix
// when absent. Port 465 uses implicit TLS, anything else STARTTLS.
func (s *Sender) SendReply(ctx context.Context, to, subject, body string) error {
	subject = ReplySubject(subject)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	client, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := s.send(client, to, msg.String()); err != nil {
		return &TransportError{Op: "send", Err: err}
	}

	s.log.Info("email sent successfully", zap.String("to", to), zap.String("subject", subject))
	return client.Quit()
}

// Ping verifies connectivity and credentials against the SMTP server.
func (s *Sender) Ping(ctx context.Context) error {
	client, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Quit()
}

func (s *Sender) dial(ctx context.Context) (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	dialer := &net.Dialer{Timeout: dialTimeout}

	if s.port == 465 {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: s.host}}
		conn, err := tlsDialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, &TransportError{Op: "connect", Err: err}
		}
		client, err := smtp.NewClient(conn, s.host)
		if err != nil {
			conn.Close()
			return nil, &TransportError{Op: "connect", Err: err}
		}
		return s.auth(client)
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &TransportError{Op: "connect", Err: err}
	}
	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return nil, &TransportError{Op: "connect", Err: err}
	}
	if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
		client.Close()
		return nil, &TransportError{Op: "starttls", Err: err}
	}
	return s.auth(client)
}

func (s *Sender) auth(client *smtp.Client) (*smtp.Client, error) {
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		client.Close()
		return nil, &TransportError{Op: "auth", Err: err}
	}
	return client, nil
}

func (s *Sender) send(client *smtp.Client, to, msg string) error {
	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("SMTP MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("SMTP RCPT TO: %w", err)
	}
	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA: %w", err)
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		writer.Close()
		return fmt.Errorf("writing message: %w", err)
	}
	return writer.Close()
}
