package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/notification"
)

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendEmailOutput), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to, subject, html, text string) error {
	args := m.Called(ctx, to, subject, html, text)
	return args.Error(0)
}

func TestNewMailer(t *testing.T) {
	tests := []struct {
		name     string
		cfg      MailerConfig
		wantSES  bool
		wantFail bool
	}{
		{"noop", MailerConfig{Provider: "noop"}, false, false},
		{"empty provider", MailerConfig{}, false, false},
		{"unknown provider", MailerConfig{Provider: "carrier-pigeon"}, false, false},
		{"ses", MailerConfig{Provider: "ses", FromAddress: "noreply@example.com", SES: SESConfig{Region: "us-east-1"}}, true, false},
		{"ses without sender", MailerConfig{Provider: "ses"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMailer(tt.cfg)
			if tt.wantFail {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, isSES := m.(*sesMailer)
			assert.Equal(t, tt.wantSES, isSES)
		})
	}
}

func TestSESMailer_Send(t *testing.T) {
	client := new(mockSES)
	client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		return aws.ToString(in.Source) == "Events <noreply@example.com>" &&
			in.Destination.ToAddresses[0] == "speaker@example.com" &&
			aws.ToString(in.Message.Subject.Data) == "Approved" &&
			in.Message.Body.Html != nil && in.Message.Body.Text == nil
	})).Return(&ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil)

	m := &sesMailer{client: client, fromAddress: "noreply@example.com", fromName: "Events"}
	require.NoError(t, m.Send(context.Background(), "speaker@example.com", "Approved", "<p>hi</p>", ""))
	client.AssertExpectations(t)
}

func TestSESMailer_SendError(t *testing.T) {
	client := new(mockSES)
	client.On("SendEmail", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	m := &sesMailer{client: client, fromAddress: "noreply@example.com"}
	err := m.Send(context.Background(), "speaker@example.com", "s", "", "t")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email via SES")
}

func TestSpeakerPublisher_Publish(t *testing.T) {
	msg := notification.Message{
		Topic:            notification.TopicApproved,
		EventID:          "event-1",
		EventName:        "Go Meetup",
		SpeakerEmail:     "speaker@example.com",
		VenueName:        "Main Hall",
		BookingStartDate: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		BookingEndDate:   time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
	}

	mailer := new(mockMailer)
	mailer.On("Send", mock.Anything, "speaker@example.com", `Your event "Go Meetup" has been approved`,
		mock.MatchedBy(func(html string) bool { return strings.Contains(html, "<strong>Go Meetup</strong>") }),
		mock.MatchedBy(func(text string) bool { return strings.Contains(text, "Venue: Main Hall") }),
	).Return(nil)

	require.NoError(t, NewSpeakerPublisher(mailer).Publish(context.Background(), msg))
	mailer.AssertExpectations(t)
}

func TestSpeakerPublisher_Skips(t *testing.T) {
	mailer := new(mockMailer)
	p := NewSpeakerPublisher(mailer)

	// published is not mailed
	require.NoError(t, p.Publish(context.Background(), notification.Message{Topic: notification.TopicPublished, SpeakerEmail: "a@example.com"}))
	// no recipient
	require.NoError(t, p.Publish(context.Background(), notification.Message{Topic: notification.TopicApproved}))

	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSpeakerPublisher_EscapesHTML(t *testing.T) {
	mailer := new(mockMailer)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything,
		mock.MatchedBy(func(html string) bool {
			return !strings.Contains(html, "<script>") && strings.Contains(html, "&lt;script&gt;")
		}),
		mock.Anything,
	).Return(nil)

	err := NewSpeakerPublisher(mailer).Publish(context.Background(), notification.Message{
		Topic:        notification.TopicCancelled,
		EventName:    "<script>alert(1)</script>",
		SpeakerEmail: "speaker@example.com",
	})

	require.NoError(t, err)
	mailer.AssertExpectations(t)
}
