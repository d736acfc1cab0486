// Package deliver uploads rendered charts to a Telegram chat.
package deliver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	logging "chartkit/internal/infra/log"
	"chartkit/internal/infra/retry"
	"chartkit/internal/render"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var ErrNoChat = errors.New("no chat to publish to")

// Sender is the part of *tgbotapi.BotAPI the publisher uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// NewBot connects to the Bot API with an upload timeout.
func NewBot(token string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return bot, nil
}

type Options struct {
	ChatID int64
	// Rate is uploads per second; Burst the bucket size.
	Rate  float64
	Burst int
	Retry retry.Options
	// TripAfter consecutive failed uploads open the circuit (default 5).
	TripAfter uint32
	// Cooldown is how long the circuit stays open (default 30s).
	Cooldown time.Duration
}

// Publisher sends charts through a rate limiter, a circuit breaker and
// retries.
type Publisher struct {
	sender  Sender
	chatID  int64
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	retry   retry.Options
}

func NewPublisher(s Sender, opts Options) (*Publisher, error) {
	if opts.ChatID == 0 {
		return nil, ErrNoChat
	}
	if opts.Rate <= 0 {
		opts.Rate = 1
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.TripAfter == 0 {
		opts.TripAfter = 5
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = 30 * time.Second
	}
	trip := opts.TripAfter

	p := &Publisher{
		sender:  s,
		chatID:  opts.ChatID,
		limiter: rate.NewLimiter(rate.Limit(opts.Rate), opts.Burst),
		retry:   opts.Retry,
	}
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TelegramUpload",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     opts.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= trip
		},
		// rejected uploads say nothing about the API's health
		IsSuccessful: func(err error) bool {
			return err == nil || !retry.IsRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.LogWarn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	if p.retry.OnRetry == nil {
		p.retry.OnRetry = func(attempt int, err error, sleep time.Duration) {
			logging.LogWarn("Retrying upload",
				zap.Int("attempt", attempt),
				zap.Duration("sleep", sleep),
				zap.Error(err),
			)
		}
	}
	return p, nil
}

// Upload is one rendered chart.
type Upload struct {
	Name    string
	Format  render.Format
	Data    []byte
	Caption string
}

// Publish sends u and returns the id of the posted message. PNGs go out as
// photos, other formats as documents.
func (p *Publisher) Publish(ctx context.Context, u Upload) (int, error) {
	if len(u.Data) == 0 {
		return 0, fmt.Errorf("upload %q is empty", u.Name)
	}
	msg, method := p.message(u)

	var sent tgbotapi.Message
	err := retry.Do(ctx, p.retry, func() error {
		if err := p.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}
		requestID := logging.GenerateRequestID()
		start := time.Now()
		logging.LogRequest(requestID, "POST", method, zap.String("file", u.Name), zap.Int("bytes", len(u.Data)))

		res, err := p.breaker.Execute(func() (interface{}, error) {
			m, err := p.sender.Send(msg)
			if err != nil {
				return nil, classify(err)
			}
			return m, nil
		})
		duration := time.Since(start).Milliseconds()
		if err != nil {
			logging.LogResponse(requestID, statusOf(err), duration, zap.String("target", method), zap.Error(err))
			return err
		}
		logging.LogResponse(requestID, http.StatusOK, duration, zap.String("target", method))
		sent = res.(tgbotapi.Message)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to publish %s: %w", u.Name, err)
	}
	return sent.MessageID, nil
}

func (p *Publisher) message(u Upload) (tgbotapi.Chattable, string) {
	file := tgbotapi.FileBytes{Name: u.Name, Bytes: u.Data}
	if u.Format == render.PNG {
		photo := tgbotapi.NewPhoto(p.chatID, file)
		photo.Caption = u.Caption
		return photo, "sendPhoto"
	}
	doc := tgbotapi.NewDocument(p.chatID, file)
	doc.Caption = u.Caption
	return doc, "sendDocument"
}

// classify turns Bot API and transport failures into retry.HTTPError so
// throttling and outages are retried.
func classify(err error) error {
	var te *tgbotapi.Error
	if errors.As(err, &te) {
		return &retry.HTTPError{
			StatusCode: te.Code,
			Body:       []byte(te.Message),
			RetryAfter: time.Duration(te.RetryAfter) * time.Second,
		}
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%w: %w", &retry.HTTPError{StatusCode: http.StatusServiceUnavailable}, err)
	}
	return err
}

func statusOf(err error) int {
	var he *retry.HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return http.StatusServiceUnavailable
	}
	return 0
}
