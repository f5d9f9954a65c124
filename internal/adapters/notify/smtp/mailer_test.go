package smtp

import (
	"context"
	"errors"
	"strings"
	"testing"

	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/stretchr/testify/require"
)

func TestMailer_SendOTP(t *testing.T) {
	var gotFrom, gotTo string
	var gotMsg []byte

	m := NewMailer(Options{Host: "smtp.example.com", Port: 465, Username: "noreply@example.com"}).
		WithSendFunc(func(_ context.Context, from, to string, msg []byte) error {
			gotFrom, gotTo, gotMsg = from, to, msg
			return nil
		})

	require.NoError(t, m.SendOTP(context.Background(), "a@x.com", "<Jane>", "123456"))

	require.Equal(t, "noreply@example.com", gotFrom)
	require.Equal(t, "a@x.com", gotTo)

	msg := string(gotMsg)
	require.True(t, strings.HasPrefix(msg, "From: noreply@example.com\r\nTo: a@x.com\r\n"))
	require.Contains(t, msg, "Content-Type: text/html")
	require.Contains(t, msg, "<b>123456</b>")
	require.Contains(t, msg, "&lt;Jane&gt;")
}

func TestMailer_SendFailure(t *testing.T) {
	m := NewMailer(Options{From: "shop@example.com"}).
		WithSendFunc(func(context.Context, string, string, []byte) error {
			return errors.New("connection refused")
		})

	err := m.SendOTP(context.Background(), "a@x.com", "Jane", "123456")
	require.True(t, customErrors.IsInternal(err))
}
