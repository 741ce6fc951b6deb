package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bellyfied/internal/config"
	auth "bellyfied/internal/usecase/auth_usecase"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordSender struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func (s *recordSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return s.err
}

func TestCompose(t *testing.T) {
	m := Compose(auth.PurposeAccount, "a@x.com", "1234")
	assert.Equal(t, "Your Bellyfied account verification code", m.Subject)
	assert.Equal(t, "Your verification code is: 1234", m.Body)

	m = Compose(auth.PurposeRestaurant, "r@x.com", "9876")
	assert.Equal(t, "Your Bellyfied restaurant activation code", m.Subject)
	assert.Equal(t, "r@x.com", m.To)
}

func TestCodeMailer_SendsAsync(t *testing.T) {
	log, _ := test.NewNullLogger()
	s := &recordSender{}
	m := NewCodeMailer(s, log, time.Second)

	//リクエストのctxがキャンセルされても送る
	ctx, cancel := context.WithCancel(context.Background())
	m.SendCode(ctx, auth.PurposeAccount, "a@x.com", "1234")
	cancel()
	m.Wait()

	require.Len(t, s.msgs, 1)
	assert.Equal(t, "a@x.com", s.msgs[0].To)
}

func TestCodeMailer_FailureIsLoggedNotReturned(t *testing.T) {
	log, hook := test.NewNullLogger()
	s := &recordSender{err: errors.New("smtp down")}
	m := NewCodeMailer(s, log, time.Second)

	m.SendCode(context.Background(), auth.PurposeRestaurant, "r@x.com", "1234")
	m.Wait()

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "verification email failed", entry.Message)
	assert.Equal(t, "r@x.com", entry.Data["to"])
}

func TestLogSender(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	require.NoError(t, NewLogSender(log).Send(context.Background(), Compose(auth.PurposeAccount, "a@x.com", "1234")))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	assert.Equal(t, "Your verification code is: 1234", hook.LastEntry().Message)
}

func TestLogSender_CodeHiddenAtInfo(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.InfoLevel)
	require.NoError(t, NewLogSender(log).Send(context.Background(), Compose(auth.PurposeAccount, "a@x.com", "1234")))
	assert.Empty(t, hook.AllEntries())
}

func TestNewSMTPSender(t *testing.T) {
	s, err := NewSMTPSender(config.Config{SMTPHost: "localhost", SMTPPort: 2525, MailFrom: "no-reply@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "no-reply@x.com", s.from)
}
