package mail

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Confirmation builds the email sent to a registrant after a successful
// submission. interests are display labels, not category ids.
func Confirmation(siteName, name string, interests []string) Message {
	var text strings.Builder
	fmt.Fprintf(&text, "Hello %s!\n\n", name)
	fmt.Fprintf(&text, "Your %s pre-registration is complete.\n", siteName)
	text.WriteString("At launch you will get early access to the features you picked:\n\n")
	for _, interest := range interests {
		fmt.Fprintf(&text, "- %s\n", interest)
	}
	text.WriteString("\nWe will be in touch as the launch date approaches.\n")

	var features strings.Builder
	for _, interest := range interests {
		fmt.Fprintf(&features, `<div class="feature"><strong>%s</strong></div>`,
			template.HTMLEscapeString(interest))
	}

	html := fmt.Sprintf(confirmationHTML,
		template.HTMLEscapeString(siteName),
		template.HTMLEscapeString(name),
		features.String(),
		template.HTMLEscapeString(siteName),
	)

	return Message{
		Subject: fmt.Sprintf("%s pre-registration confirmed", siteName),
		Text:    text.String(),
		HTML:    html,
	}
}

// AdminNotification builds the best-effort email sent to the site operator
// when someone registers. client is a short description of the registrant's
// browser, or empty when unknown.
func AdminNotification(siteName, name, email string, interests []string, registeredAt time.Time, client string) Message {
	var text strings.Builder
	fmt.Fprintf(&text, "%s - new pre-registration\n\n", siteName)
	text.WriteString("Registrant:\n")
	fmt.Fprintf(&text, "Name: %s\n", name)
	fmt.Fprintf(&text, "Email: %s\n", email)
	fmt.Fprintf(&text, "Registered: %s\n", registeredAt.Format("2006-01-02 15:04:05 MST"))
	if client != "" {
		fmt.Fprintf(&text, "Client: %s\n", client)
	}
	text.WriteString("\nAreas of interest:\n")
	if len(interests) == 0 {
		text.WriteString("- none selected\n")
	}
	for _, interest := range interests {
		fmt.Fprintf(&text, "- %s\n", interest)
	}

	var interestHTML strings.Builder
	if len(interests) == 0 {
		interestHTML.WriteString("<p>none selected</p>")
	}
	for _, interest := range interests {
		fmt.Fprintf(&interestHTML, "<p>&bull; %s</p>", template.HTMLEscapeString(interest))
	}

	clientLine := ""
	if client != "" {
		clientLine = fmt.Sprintf("<p><strong>Client:</strong> %s</p>", template.HTMLEscapeString(client))
	}

	html := fmt.Sprintf(adminNotificationHTML,
		template.HTMLEscapeString(siteName),
		template.HTMLEscapeString(name),
		template.HTMLEscapeString(email),
		registeredAt.Format("2006-01-02 15:04:05 MST"),
		clientLine,
		interestHTML.String(),
	)

	return Message{
		Subject: fmt.Sprintf("%s - new pre-registration", siteName),
		Text:    text.String(),
		HTML:    html,
	}
}

const confirmationHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Registration confirmed</title>
  <style>
    .container { max-width: 600px; margin: 0 auto; font-family: Arial, sans-serif; }
    .header { background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); color: white; padding: 20px; text-align: center; }
    .content { padding: 30px 20px; background: #f9f9f9; }
    .feature { background: white; margin: 10px 0; padding: 15px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
    .footer { background: #333; color: white; padding: 20px; text-align: center; font-size: 14px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
      <p>Thanks for pre-registering!</p>
    </div>
    <div class="content">
      <h2>Hello %s!</h2>
      <p>Your pre-registration is complete. At launch you will get early access to the features you picked:</p>
      %s
      <p>We will be in touch as the launch date approaches.</p>
    </div>
    <div class="footer">
      <p>&copy; 2025 %s Team. All rights reserved.</p>
    </div>
  </div>
</body>
</html>`

const adminNotificationHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    .container { max-width: 600px; margin: 0 auto; font-family: Arial, sans-serif; }
    .header { background: #2563eb; color: white; padding: 20px; }
    .content { padding: 20px; background: #f8fafc; }
    .info-box { background: white; padding: 15px; margin: 10px 0; border-radius: 8px; border-left: 4px solid #2563eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h2>%s - new pre-registration</h2>
    </div>
    <div class="content">
      <div class="info-box">
        <h3>Registrant</h3>
        <p><strong>Name:</strong> %s</p>
        <p><strong>Email:</strong> %s</p>
        <p><strong>Registered:</strong> %s</p>
        %s
      </div>
      <div class="info-box">
        <h3>Areas of interest</h3>
        %s
      </div>
    </div>
  </div>
</body>
</html>`
