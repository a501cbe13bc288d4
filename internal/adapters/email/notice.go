package email

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// NoticeTimeout bounds how long a single notice may take to deliver.
const NoticeTimeout = 10 * time.Second

// NoticeKind identifies which roster change a notice reports.
type NoticeKind string

const (
	NoticeSignedUp     NoticeKind = "signed_up"
	NoticeUnregistered NoticeKind = "unregistered"
)

// Notice tells a student their roster entry changed.
type Notice struct {
	Kind     NoticeKind
	Email    string
	Activity string
	Schedule string
	Teacher  string
}

// mdRenderer turns the markdown notice body into the HTML part.
// Raw HTML in the input is escaped because WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Request renders the notice as an email with markdown text and an HTML part.
func (n Notice) Request() SendRequest {
	teacher := n.Teacher
	if teacher == "" {
		teacher = "A teacher"
	}

	var subject, body string
	switch n.Kind {
	case NoticeUnregistered:
		subject = fmt.Sprintf("You have been removed from %s", n.Activity)
		body = fmt.Sprintf("Hello,\n\n%s removed you from **%s**.\n", teacher, n.Activity)
	default:
		subject = fmt.Sprintf("You are signed up for %s", n.Activity)
		body = fmt.Sprintf("Hello,\n\n%s signed you up for **%s**.\nSchedule: %s\n", teacher, n.Activity, n.Schedule)
	}
	body += "\n*Mergington High School Extracurricular Activities*\n"

	req := SendRequest{To: []string{n.Email}, Subject: subject, Text: body}
	var html bytes.Buffer
	if err := mdRenderer.Convert([]byte(body), &html); err != nil {
		slog.Debug("notice_render_failed", "error", err.Error())
	} else {
		req.HTML = html.String()
	}
	return req
}

// Dispatch sends n on its own goroutine so the caller never waits on the provider.
// The send gets a fresh context with NoticeTimeout; failures are only logged.
// The returned channel is closed once the attempt has finished.
func Dispatch(sender Sender, n Notice) <-chan struct{} {
	done := make(chan struct{})
	if sender == nil {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), NoticeTimeout)
		defer cancel()

		if _, err := sender.Send(ctx, n.Request()); err != nil {
			slog.Warn("participant_notice_failed",
				"kind", string(n.Kind),
				"activity", n.Activity,
				"email", n.Email,
				"error", err.Error(),
			)
		}
	}()
	return done
}
