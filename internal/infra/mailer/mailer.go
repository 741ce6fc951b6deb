package mailer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bellyfied/internal/metrics"
	auth "bellyfied/internal/usecase/auth_usecase"

	"github.com/sirupsen/logrus"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// 実際に送る部分（SMTP / ログ）
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// 認証コードのメールを非同期で送る。
// 失敗はログとメトリクスに残すだけで呼び出し元には返さない
type CodeMailer struct {
	sender  Sender
	log     *logrus.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewCodeMailer(sender Sender, log *logrus.Logger, timeout time.Duration) *CodeMailer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CodeMailer{sender: sender, log: log, timeout: timeout}
}

func (m *CodeMailer) SendCode(ctx context.Context, purpose auth.CodePurpose, email string, code string) {
	msg := Compose(purpose, email, code)

	//リクエストが終わっても送信は続ける
	sendCtx := context.WithoutCancel(ctx)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		c, cancel := context.WithTimeout(sendCtx, m.timeout)
		defer cancel()

		if err := m.sender.Send(c, msg); err != nil {
			metrics.EmailFailed(string(purpose))
			m.log.WithError(err).WithFields(logrus.Fields{
				"purpose": purpose,
				"to":      email,
			}).Error("verification email failed")
			return
		}
		m.log.WithFields(logrus.Fields{"purpose": purpose, "to": email}).Debug("verification email sent")
	}()
}

// 送信中のメールを待つ（終了時・テスト用）
func (m *CodeMailer) Wait() {
	m.wg.Wait()
}

func Compose(purpose auth.CodePurpose, email string, code string) Message {
	subject := "Your Bellyfied account verification code"
	if purpose == auth.PurposeRestaurant {
		subject = "Your Bellyfied restaurant activation code"
	}
	return Message{
		To:      email,
		Subject: subject,
		Body:    fmt.Sprintf("Your verification code is: %s", code),
	}
}

// 開発用。送らずにDebugログに出す（コードが平文で出る）
type LogSender struct {
	log *logrus.Logger
}

func NewLogSender(log *logrus.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Debug(msg.Body)
	return nil
}
