package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"github.com/Buffden/Event-Management-System-sub004/internal/pkg/logger"
)

// Mailer sends a single e-mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// SESConfig holds AWS SES settings.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the SES endpoint, e.g. for a local emulator.
	Endpoint string
}

// MailerConfig selects and configures a mailer.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// NewMailer creates a mailer. Provider "ses" uses AWS SES; "noop" or an
// unknown provider logs and discards mail.
func NewMailer(cfg MailerConfig) (Mailer, error) {
	switch cfg.Provider {
	case "ses":
		if cfg.FromAddress == "" {
			return nil, fmt.Errorf("mail from address is required for ses")
		}
		awsCfg := aws.Config{
			Region: cfg.SES.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(cfg.SES.AccessKeyID, cfg.SES.SecretAccessKey, ""),
			),
		}
		client := ses.NewFromConfig(awsCfg, func(o *ses.Options) {
			if cfg.SES.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.SES.Endpoint)
			}
		})
		return &sesMailer{client: client, fromAddress: cfg.FromAddress, fromName: cfg.FromName}, nil
	case "noop", "":
		return noopMailer{}, nil
	default:
		logger.Warn("unknown mail provider, using noop", zap.String("provider", cfg.Provider))
		return noopMailer{}, nil
	}
}

// sesAPI is the part of the SES client the mailer uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type sesMailer struct {
	client      sesAPI
	fromAddress string
	fromName    string
}

func (s *sesMailer) Send(ctx context.Context, to, subject, html, text string) error {
	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}
	input := &ses.SendEmailInput{
		Source:      aws.String(source),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body:    &types.Body{},
		},
	}
	if html != "" {
		input.Message.Body.Html = &types.Content{Data: aws.String(html), Charset: aws.String("UTF-8")}
	}
	if text != "" {
		input.Message.Body.Text = &types.Content{Data: aws.String(text), Charset: aws.String("UTF-8")}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	logger.Debug("email sent via SES", zap.String("message_id", aws.ToString(result.MessageId)))
	return nil
}

type noopMailer struct{}

func (noopMailer) Send(_ context.Context, to, subject, _, _ string) error {
	logger.Debug("email discarded (noop)", zap.String("to", to), zap.String("subject", subject))
	return nil
}
