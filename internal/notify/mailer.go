package notify

import "context"

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Mailer interface {
	SendRegistrationWelcome(ctx context.Context, to, name, employeeID string) error
}
