package mail

// LeadEmailData alimenta templates/lead_notification.html.
type LeadEmailData struct {
	Name        string
	Email       string
	Phone       string
	Services    []string
	Message     string
	SubmittedAt string
	LeadIDs     []string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string

	dialer dialer
}
