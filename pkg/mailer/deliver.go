package mailer

import (
	"context"
	"errors"
	"strings"

	"github.com/oksasatya/employee-management-api/pkg/mailer/templates"
)

// ErrBadJob marks a job that can never be delivered, so it should not be requeued.
var ErrBadJob = errors.New("bad email job")

// Deliver renders job if it names a template and hands it to s.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	if strings.TrimSpace(job.To) == "" {
		return errors.Join(ErrBadJob, errors.New("missing recipient"))
	}
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		ensureRecipient(&job)
		var err error
		subject, text, html, err = templates.Render(job.Template, job.Data)
		if err != nil {
			return errors.Join(ErrBadJob, err)
		}
	}
	if subject == "" || (text == "" && html == "") {
		return errors.Join(ErrBadJob, errors.New("empty message"))
	}
	return s.Send(ctx, job.To, subject, text, html)
}

// ensureRecipient lets templates rely on .Email even when the producer only set To.
func ensureRecipient(job *EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"].(string); !ok || strings.TrimSpace(v) == "" {
		job.Data["Email"] = job.To
	}
}
