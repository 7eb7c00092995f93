package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"go.uber.org/zap"

	"github.com/WalesndWebs/project-prodigyloan/internal/log"
	"github.com/WalesndWebs/project-prodigyloan/internal/queue"
)

var loanAppliedTmpl = template.Must(template.New("loan-applied").Parse(`<!DOCTYPE html>
<html>
  <body>
    <div style="max-width:800px;margin:0 auto;padding:20px">
      <div style="background:#2563eb;color:#fff;padding:20px;text-align:center">
        <h1>New Loan Application Received</h1>
        <p>Application ID: {{.ApplicationID}}</p>
      </div>
      <div style="margin:20px 0;padding:15px;border:1px solid #e5e7eb">
        <p><b>Applicant:</b> {{.Email}}</p>
        <p><b>Amount:</b> {{printf "%.2f" .Amount}}</p>
        <p><b>Purpose:</b> {{.Purpose}}</p>
      </div>
    </div>
  </body>
</html>`))

// Sender delivers portal notification mail. The transport is a structured
// log line; a real SMTP/API transport slots in behind the same method.
type Sender struct{}

func (s *Sender) Send(to, subject, body string) error {
	log.L().Info("mail out",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("bytes", len(body)))
	return nil
}

// SendLoanApplied renders and sends the application-received notification.
func (s *Sender) SendLoanApplied(to string, ev queue.LoanApplied) error {
	var buf bytes.Buffer
	if err := loanAppliedTmpl.Execute(&buf, ev); err != nil {
		return fmt.Errorf("render loan-applied mail: %w", err)
	}
	subject := fmt.Sprintf("New Loan Application - %s", ev.ApplicationID)
	return s.Send(to, subject, buf.String())
}
