package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

type reminderData struct {
	RecipientName string
	ProductName   string
	DeliveryDate  string
	ConfirmURL    string
	// CustomMessage is already sanitized HTML.
	CustomMessage string
}

type reminderContent struct {
	Subject string
	HTML    string
	Plain   string
}

var reminderHTML = htmltemplate.Must(htmltemplate.New("reminder.html").Parse(`<html>
<body>
	<h2>Your next delivery is coming up</h2>
	<p>Hi {{if .RecipientName}}{{.RecipientName}}{{else}}there{{end}},</p>
	<p>Your <strong>{{.ProductName}}</strong> is scheduled for delivery on <strong>{{.DeliveryDate}}</strong>.</p>
	{{if .CustomMessage}}<div>{{.CustomMessageHTML}}</div>{{end}}
	<p>Would you like to continue, pause or cancel this delivery?</p>
	<p><a href="{{.ConfirmURL}}">Manage this delivery</a></p>
	<p>Or copy and paste this URL into your browser:</p>
	<p>{{.ConfirmURL}}</p>
	<p>If you do nothing, your delivery will arrive as scheduled.</p>
</body>
</html>
`))

var reminderPlain = texttemplate.Must(texttemplate.New("reminder.txt").Parse(`Your next delivery is coming up

Hi {{if .RecipientName}}{{.RecipientName}}{{else}}there{{end}},

Your {{.ProductName}} is scheduled for delivery on {{.DeliveryDate}}.

To continue, pause or cancel this delivery, visit:
{{.ConfirmURL}}

If you do nothing, your delivery will arrive as scheduled.
`))

// htmlView exposes the pre-sanitized custom message as trusted HTML to the
// html template while every other field stays auto-escaped.
type htmlView struct {
	reminderData
	CustomMessageHTML htmltemplate.HTML
}

func renderReminder(data reminderData) (*reminderContent, error) {
	var htmlBuf, plainBuf bytes.Buffer

	view := htmlView{reminderData: data, CustomMessageHTML: htmltemplate.HTML(data.CustomMessage)}
	if err := reminderHTML.Execute(&htmlBuf, view); err != nil {
		return nil, fmt.Errorf("failed to render reminder html: %w", err)
	}
	if err := reminderPlain.Execute(&plainBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render reminder text: %w", err)
	}

	return &reminderContent{
		Subject: fmt.Sprintf("Upcoming delivery: %s on %s", data.ProductName, data.DeliveryDate),
		HTML:    htmlBuf.String(),
		Plain:   plainBuf.String(),
	}, nil
}
