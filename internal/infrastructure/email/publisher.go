package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/notification"
)

//go:embed templates/*
var templateFS embed.FS

var templateByTopic = map[notification.Topic]string{
	notification.TopicApproved:  "event_approved",
	notification.TopicCancelled: "event_cancelled",
}

type mailData struct {
	EventName string
	Venue     string
	Start     string
	End       string
}

// SpeakerPublisher mails the event creator when an event is approved or
// cancelled. Other topics and messages without a creator address are skipped.
type SpeakerPublisher struct {
	mailer Mailer
}

func NewSpeakerPublisher(m Mailer) *SpeakerPublisher {
	return &SpeakerPublisher{mailer: m}
}

func (p *SpeakerPublisher) Publish(ctx context.Context, msg notification.Message) error {
	name, ok := templateByTopic[msg.Topic]
	if !ok || msg.SpeakerEmail == "" {
		return nil
	}
	venue := msg.VenueName
	if venue == "" {
		venue = msg.VenueID
	}
	data := mailData{
		EventName: msg.EventName,
		Venue:     venue,
		Start:     msg.BookingStartDate.UTC().Format(time.RFC1123),
		End:       msg.BookingEndDate.UTC().Format(time.RFC1123),
	}
	subject, html, text, err := render(name, data)
	if err != nil {
		return err
	}
	return p.mailer.Send(ctx, msg.SpeakerEmail, subject, html, text)
}

var _ notification.Publisher = (*SpeakerPublisher)(nil)

// render executes the subject, html and text templates for name.
func render(name string, data mailData) (subject, html, text string, err error) {
	if subject, err = renderFile(name+"_subject.txt", data, false); err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	if html, err = renderFile(name+".html", data, true); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	if text, err = renderFile(name+".txt", data, false); err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(subject), html, text, nil
}

func renderFile(name string, data mailData, html bool) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if html {
		t, err := htmltemplate.New(name).Parse(string(raw))
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	t, err := texttemplate.New(name).Parse(string(raw))
	if err != nil {
		return "", err
	}
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
