package notify

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/kangopak/ohisee-api/internal/domain/notify"
)

// Mailer sends quality notifications over SMTP.
type Mailer struct {
	dialer       *gomail.Dialer
	from         string
	managementTo []string
}

func NewMailer(host string, port int, username, password, from string, managementTo []string) *Mailer {
	return &Mailer{
		dialer:       gomail.NewDialer(host, port, username, password),
		from:         from,
		managementTo: managementTo,
	}
}

func (m *Mailer) send(subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.managementTo...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// SendMachineDownAlert notifies management that production equipment is down.
func (m *Mailer) SendMachineDownAlert(_ context.Context, a notify.MachineDownAlert) error {
	subject := fmt.Sprintf("MACHINE DOWN: %s (%s)", a.MachineName, a.NCANumber)
	var b strings.Builder
	fmt.Fprintf(&b, "Machine %s reported down at %s.\n\n", a.MachineName, a.DownSince.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "NCA: %s\nReported by: %s\n", a.NCANumber, a.ReportedBy)
	if a.EstimatedHours > 0 {
		fmt.Fprintf(&b, "Estimated downtime: %.1f hours\n", a.EstimatedHours)
	}
	fmt.Fprintf(&b, "\n%s\n", a.Description)
	return m.send(subject, b.String())
}

// SendEndOfDaySummary emails the shift sign-off summary with a link to
// the archived report.
func (m *Mailer) SendEndOfDaySummary(_ context.Context, s notify.EndOfDaySummary) error {
	subject := fmt.Sprintf("End of Day: %s - %s", s.OperatorName, s.Date)
	var b strings.Builder
	fmt.Fprintf(&b, "Shift sign-off for %s on %s.\n\n", s.OperatorName, s.Date)
	fmt.Fprintf(&b, "Work orders completed: %d\n", s.WorkOrderCount)
	fmt.Fprintf(&b, "NCAs submitted: %d\n", s.NCACount)
	if len(s.NCANumbers) > 0 {
		fmt.Fprintf(&b, "  %s\n", strings.Join(s.NCANumbers, ", "))
	}
	fmt.Fprintf(&b, "MJCs opened: %d\n", s.MJCCount)
	if len(s.MJCNumbers) > 0 {
		fmt.Fprintf(&b, "  %s\n", strings.Join(s.MJCNumbers, ", "))
	}
	if s.ShiftNotes != "" {
		fmt.Fprintf(&b, "\nShift notes:\n%s\n", s.ShiftNotes)
	}
	if s.ReportURL != "" {
		fmt.Fprintf(&b, "\nFull report: %s\n", s.ReportURL)
	}
	return m.send(subject, b.String())
}
