package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
)

type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SendFunc delivers a fully formed message.
type SendFunc func(ctx context.Context, from, to string, msg []byte) error

type Mailer struct {
	opts Options
	send SendFunc
}

func NewMailer(opts Options) *Mailer {
	if opts.From == "" {
		opts.From = opts.Username
	}
	m := &Mailer{opts: opts}
	m.send = m.sendTLS
	return m
}

// WithSendFunc replaces the transport, used in tests.
func (m *Mailer) WithSendFunc(f SendFunc) *Mailer {
	m.send = f
	return m
}

func (m *Mailer) SendOTP(ctx context.Context, email, fullName, code string) error {
	subject := "Your password reset code"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your password reset code is <b>%s</b>.</p>"+
			"<p>If you did not request a reset, ignore this email.</p>",
		escape(fullName), code,
	)

	if err := m.send(ctx, m.opts.From, email, buildMessage(m.opts.From, email, subject, body)); err != nil {
		return customErrors.WrapInternal(err, "send otp email")
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	return []byte(
		"From: " + from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)
}

// sendTLS speaks SMTP over implicit TLS (port 465).
func (m *Mailer) sendTLS(ctx context.Context, from, to string, msg []byte) error {
	addr := net.JoinHostPort(m.opts.Host, strconv.Itoa(m.opts.Port))

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: m.opts.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.opts.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if m.opts.Username != "" {
		if err := client.Auth(smtp.PlainAuth("", m.opts.Username, m.opts.Password, m.opts.Host)); err != nil {
			return err
		}
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;")

func escape(s string) string {
	return htmlEscaper.Replace(s)
}
