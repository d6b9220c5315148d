package notify

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMTPMailer_SendRegistrationWelcome(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	m := NewSMTPMailer("mail.local", 587, "noreply@faceattend.local", "", "").(*smtpMailer)
	m.sendFn = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := m.SendRegistrationWelcome(context.Background(), "alice@example.com", "alice", "EMP-000001")
	assert.NoError(t, err)
	assert.Equal(t, "mail.local:587", gotAddr)
	assert.Equal(t, "noreply@faceattend.local", gotFrom)
	assert.Equal(t, []string{"alice@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Welcome to the attendance system")
	assert.Contains(t, string(gotMsg), "EMP-000001")
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	m := NewSMTPMailer("mail.local", 587, "noreply@faceattend.local", "", "").(*smtpMailer)
	m.sendFn = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		t.Fatal("sendFn should not be called with a cancelled context")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.SendRegistrationWelcome(ctx, "alice@example.com", "alice", "EMP-000001")
	assert.ErrorIs(t, err, context.Canceled)
}
