package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/my-maps-api/pkg/mailer/templates"
)

var (
	ErrEmptyJob = errors.New("email job needs a recipient and a template or subject")
	ErrRender   = errors.New("render email")
)

// Deliver renders job (when it names a template) and hands it to s.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	if job.To == "" || (job.Template == "" && job.Subject == "") {
		return ErrEmptyJob
	}
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = templates.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrRender, job.Template, err)
		}
	}
	return s.Send(ctx, job.To, subject, text, html)
}
