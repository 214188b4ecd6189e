package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Producers set Template and Data; the worker renders subject, text and html.
// Raw Subject/Text/HTML are honored when Template is empty.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome" or "comment_notification"
	Data     map[string]any `json:"data,omitempty"`
}
