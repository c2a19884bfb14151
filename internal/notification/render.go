package notification

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/billtrack/invoice-system/internal/core/domain"
	"github.com/billtrack/invoice-system/internal/core/ports"
)

// Message is a fully rendered reminder: subject plus plain-text and HTML
// alternatives. The zero Message is what an unknown kind renders to.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// IsZero reports whether the message carries no content.
func (m Message) IsZero() bool {
	return m.Subject == "" && m.Text == "" && m.HTML == ""
}

const htmlLayout = `<div style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #F1F3E0; border-radius: 10px;">
  <div style="background-color: {{.HeaderColor}}; color: white; padding: 20px; border-radius: 10px 10px 0 0; text-align: center;">
    <h1>{{.Heading}}</h1>
  </div>
  <div style="background-color: white; padding: 30px; border-radius: 0 0 10px 10px; border: 2px solid #D2DCB6;">
    <h2 style="color: #778873;">Dear {{.Salutation}},</h2>
    <p>{{.Lead}}</p>
    <div style="background-color: #F1F3E0; padding: 20px; border-radius: 5px; margin: 20px 0;">
      <p><strong>Invoice #:</strong> {{.Data.InvoiceNumber}}</p>
      <p><strong>Amount:</strong> ${{printf "%.2f" .Data.Amount}}</p>
      <p><strong>Due Date:</strong> {{.Data.DueDate}}</p>
    </div>
    {{if .ShowClientContact}}<div style="background-color: #F1F3E0; padding: 20px; border-radius: 5px; margin: 20px 0;">
      <h3 style="color: #778873; margin-top: 0;">Client Information</h3>
      <p><strong>Client Name:</strong> {{.Data.ClientName}}</p>
      <p><strong>Client Email:</strong> {{.Data.ClientEmail}}</p>
    </div>{{end}}
    {{if .ShowSalesContact}}<div style="background-color: #F1F3E0; padding: 20px; border-radius: 5px; margin: 20px 0;">
      <h3 style="color: #778873; margin-top: 0;">Sales Representative</h3>
      <p><strong>Email:</strong> {{.Data.SalesEmail}}</p>
    </div>{{end}}
    <p>{{.Closing}}</p>
    <hr style="border: 1px solid #D2DCB6; margin: 20px 0;">
    <p style="font-size: 12px; color: #778873;">This is an automated message from Invoice Management System.</p>
  </div>
</div>`

var reminderTmpl = template.Must(template.New("reminder").Parse(htmlLayout))

// layoutData is the internal payload the shared HTML layout renders from.
type layoutData struct {
	Heading           string
	HeaderColor       string
	Salutation        string
	Lead              string
	Closing           string
	ShowClientContact bool
	ShowSalesContact  bool
	Data              ports.ReminderData
}

// Render produces the message for a (kind, invoice) pair. It is pure: the
// same inputs always yield the same message, and an unknown kind yields the
// zero Message, never an error.
func Render(kind domain.NotificationKind, data ports.ReminderData) Message {
	var (
		subject string
		text    string
		layout  layoutData
	)

	switch kind {
	case domain.KindClient14Days:
		subject = "Upcoming Invoice Due Date Reminder - 14 Days"
		text = fmt.Sprintf("Dear %s, Your invoice #%s is due in 14 days. Amount: $%.2f. Due Date: %s.",
			data.ClientName, data.InvoiceNumber, data.Amount, data.DueDate)
		layout = layoutData{
			Heading:     "Invoice Reminder",
			HeaderColor: "#778873",
			Salutation:  data.ClientName,
			Lead:        "This is a friendly reminder that your invoice is due in 14 days.",
			Closing:     "Please ensure payment is made on time to avoid any late fees.",
		}
	case domain.KindClient7Days:
		subject = "Invoice Due in 7 Days - Action Required"
		text = fmt.Sprintf("IMPORTANT: Dear %s, Your invoice #%s is due in 7 days. Amount: $%.2f. Due Date: %s. Please arrange payment soon.",
			data.ClientName, data.InvoiceNumber, data.Amount, data.DueDate)
		layout = layoutData{
			Heading:     "Invoice Due Soon",
			HeaderColor: "#778873",
			Salutation:  data.ClientName,
			Lead:        "Your invoice is due in just 7 days!",
			Closing:     "Please arrange payment as soon as possible to avoid late payment penalties.",
		}
	case domain.KindSales7Days:
		subject = "Client Invoice Approaching Due Date - Follow Up Required"
		text = fmt.Sprintf("Client %s has an invoice #%s due in 7 days. Amount: $%.2f. Please follow up.",
			data.ClientName, data.InvoiceNumber, data.Amount)
		layout = layoutData{
			Heading:           "Client Invoice Alert",
			HeaderColor:       "#778873",
			Salutation:        "Sales Team",
			Lead:              "A client invoice is approaching its due date. Please follow up with the client.",
			Closing:           "Action Required: Please contact the client to ensure timely payment.",
			ShowClientContact: true,
		}
	case domain.KindManager1Day:
		subject = "URGENT: Client Invoice Due Tomorrow - Immediate Action Required"
		text = fmt.Sprintf("URGENT: Invoice #%s for %s is due tomorrow. Amount: $%.2f. Sales Rep: %s. Immediate action required.",
			data.InvoiceNumber, data.ClientName, data.Amount, data.SalesEmail)
		layout = layoutData{
			Heading:           "URGENT: Invoice Due Tomorrow",
			HeaderColor:       "#d9534f",
			Salutation:        "Manager",
			Lead:              "An invoice is due tomorrow and requires urgent follow-up.",
			Closing:           "Please take immediate action to ensure payment collection.",
			ShowClientContact: true,
			ShowSalesContact:  true,
		}
	default:
		return Message{}
	}

	layout.Data = data

	var html strings.Builder
	if err := reminderTmpl.Execute(&html, layout); err != nil {
		// Parse is checked at init; execution over plain struct fields
		// cannot fail. Fall back to text-only rather than panic.
		return Message{Subject: subject, Text: text}
	}

	return Message{Subject: subject, Text: text, HTML: html.String()}
}
