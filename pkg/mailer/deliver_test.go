package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/oksasatya/employee-management-api/pkg/mailer/templates"
)

type recordSender struct {
	to, subject, text, html string
	calls                   int
}

func (r *recordSender) Send(_ context.Context, to, subject, text, html string) error {
	r.calls++
	r.to, r.subject, r.text, r.html = to, subject, text, html
	return nil
}

func TestDeliverWelcomeTemplate(t *testing.T) {
	s := &recordSender{}
	job := EmailJob{
		To:       "jane@example.com",
		Template: templates.Welcome,
		Data:     templates.WelcomeData("Acme HR", "Jane", "jane@example.com", "http://localhost:3000/login"),
	}
	if err := Deliver(context.Background(), s, job); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if s.subject != "Welcome to Acme HR" {
		t.Fatalf("subject = %q", s.subject)
	}
	if !strings.Contains(s.text, "Hi Jane") || !strings.Contains(s.html, "http://localhost:3000/login") {
		t.Fatalf("unexpected body: %q / %q", s.text, s.html)
	}
}

func TestDeliverRejectsBadJobs(t *testing.T) {
	s := &recordSender{}
	cases := []EmailJob{
		{Template: templates.Welcome},
		{To: "a@b.com", Template: "no_such_template"},
		{To: "a@b.com"},
	}
	for _, job := range cases {
		if err := Deliver(context.Background(), s, job); !errors.Is(err, ErrBadJob) {
			t.Errorf("job %+v: expected ErrBadJob, got %v", job, err)
		}
	}
	if s.calls != 0 {
		t.Fatalf("sender called %d times", s.calls)
	}
}

func TestDeliverFillsRecipientEmail(t *testing.T) {
	s := &recordSender{}
	job := EmailJob{To: "bob@example.com", Template: templates.Welcome, Data: map[string]any{"Name": "Bob"}}
	if err := Deliver(context.Background(), s, job); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if !strings.Contains(s.text, "bob@example.com") {
		t.Fatalf("recipient not rendered: %q", s.text)
	}
}
