package notify

import "context"

type OTPSender interface {
	SendOTP(ctx context.Context, email, fullName, code string) error
}
