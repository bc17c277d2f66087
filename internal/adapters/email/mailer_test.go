package email

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer(t *testing.T) {
	tests := []struct {
		name    string
		cfg     MailerConfig
		wantSES bool
		wantErr bool
	}{
		{name: "noop", cfg: MailerConfig{Provider: "noop"}},
		{name: "empty provider", cfg: MailerConfig{}},
		{name: "unknown provider falls back", cfg: MailerConfig{Provider: "smtp"}},
		{name: "ses", cfg: MailerConfig{Provider: "ses", FromAddress: "events@example.com", SES: SESConfig{Region: "eu-west-1"}}, wantSES: true},
		{name: "ses without sender", cfg: MailerConfig{Provider: "ses"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMailer(tt.cfg, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, isSES := m.(*sesMailer)
			assert.Equal(t, tt.wantSES, isSES)
		})
	}
}

func TestNoopMailer_LogsInsteadOfSending(t *testing.T) {
	var buf bytes.Buffer
	m, err := NewMailer(MailerConfig{Provider: "noop"}, slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)

	require.NoError(t, m.Send(context.Background(), "ada@example.com", "Hi", "<p>hi</p>", "hi"))
	assert.Contains(t, buf.String(), "to=ada@example.com")
	assert.Contains(t, buf.String(), "subject=Hi")
}
