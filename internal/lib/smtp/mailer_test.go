package smtp

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	return m.Called().String(0)
}

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Mail(from string) error { return m.Called(from).Error(0) }
func (m *MockClient) Rcpt(to string) error   { return m.Called(to).Error(0) }
func (m *MockClient) Quit() error            { return m.Called().Error(0) }
func (m *MockClient) Close() error           { return m.Called().Error(0) }
func (m *MockClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func TestMailer_Send(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(tr *MockTransport, c *MockClient, w *bufferCloser)
		wantErr string
	}{
		{
			name: "success",
			setup: func(tr *MockTransport, c *MockClient, w *bufferCloser) {
				tr.On("Connect").Return(c, nil).Once()
				c.On("Mail", "noreply@lms.test").Return(nil).Once()
				c.On("Rcpt", "a@lms.test").Return(nil).Once()
				c.On("Rcpt", "b@lms.test").Return(nil).Once()
				c.On("Data").Return(w, nil).Once()
				c.On("Quit").Return(nil).Once()
				c.On("Close").Return(nil).Once()
			},
		},
		{
			name: "connect error",
			setup: func(tr *MockTransport, _ *MockClient, _ *bufferCloser) {
				tr.On("Connect").Return(nil, errors.New("dial tcp: refused")).Once()
			},
			wantErr: "dial tcp: refused",
		},
		{
			name: "rcpt rejected",
			setup: func(tr *MockTransport, c *MockClient, _ *bufferCloser) {
				tr.On("Connect").Return(c, nil).Once()
				c.On("Mail", "noreply@lms.test").Return(nil).Once()
				c.On("Rcpt", "a@lms.test").Return(errors.New("550 no such user")).Once()
				c.On("Close").Return(nil).Once()
			},
			wantErr: "rcpt to a@lms.test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := new(MockTransport)
			c := new(MockClient)
			w := &bufferCloser{}
			tr.On("GetSMTPUser").Return("noreply@lms.test")
			tt.setup(tr, c, w)

			err := NewMailer(tr).Send([]string{"a@lms.test", "b@lms.test"}, "Course updated", "Hello")

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.True(t, w.closed)
				assert.Contains(t, w.String(), "Subject: Course updated\r\n")
				assert.Contains(t, w.String(), "To: a@lms.test, b@lms.test\r\n")
				assert.Contains(t, w.String(), "\r\n\r\nHello")
			}
			tr.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestMailer_SendNoRecipients(t *testing.T) {
	tr := new(MockTransport)
	require.NoError(t, NewMailer(tr).Send(nil, "s", "b"))
	tr.AssertNotCalled(t, "Connect")
}

func TestMailer_SendSubjectHeader(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		decoded string
		encoded bool
	}{
		{
			name:    "line break in title",
			subject: "Обновление курса: Go\nBcc: attacker@evil.test",
			decoded: "Обновление курса: Go Bcc: attacker@evil.test",
			encoded: true,
		},
		{
			name:    "crlf in title",
			subject: "Go\r\nBcc: attacker@evil.test",
			decoded: "Go Bcc: attacker@evil.test",
		},
		{
			name:    "cyrillic only",
			subject: "Обновлен урок в курсе: Основы",
			decoded: "Обновлен урок в курсе: Основы",
			encoded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := new(MockTransport)
			c := new(MockClient)
			w := &bufferCloser{}
			tr.On("GetSMTPUser").Return("noreply@lms.test")
			tr.On("Connect").Return(c, nil).Once()
			c.On("Mail", "noreply@lms.test").Return(nil).Once()
			c.On("Rcpt", "sub@example.com").Return(nil).Once()
			c.On("Data").Return(w, nil).Once()
			c.On("Quit").Return(nil).Once()
			c.On("Close").Return(nil).Once()

			require.NoError(t, NewMailer(tr).Send([]string{"sub@example.com"}, tt.subject, "body"))

			headers, _, found := strings.Cut(w.String(), "\r\n\r\n")
			require.True(t, found)
			lines := strings.Split(headers, "\r\n")
			require.Len(t, lines, 5)

			var subject string
			for _, line := range lines {
				assert.NotContains(t, line, "\n")
				assert.False(t, strings.HasPrefix(line, "Bcc:"))
				if v, ok := strings.CutPrefix(line, "Subject: "); ok {
					subject = v
				}
			}
			assert.Equal(t, tt.encoded, strings.HasPrefix(subject, "=?utf-8?q?"), subject)

			decoded, err := new(mime.WordDecoder).DecodeHeader(subject)
			require.NoError(t, err)
			assert.Equal(t, tt.decoded, decoded)
		})
	}
}
