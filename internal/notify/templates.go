package notify

import (
	"bytes"
	"fmt"
	"text/template"
)

type message struct {
	subject *template.Template
	body    *template.Template
}

var messages = map[Kind]message{
	KindWelcome: parse(
		`Welcome to Buy1688, {{.Name}}`,
		`Hi{{with .Name}} {{.}}{{end}},

Your account {{.To}} is ready. You can now browse the catalog or send us a buy-on-behalf request.
`),
	KindOrderCreated: parse(
		`Order #{{.OrderID}} received`,
		`Hi{{with .Name}} {{.}}{{end}},

We received your {{if eq .OrderType "ASSIST"}}assist {{end}}order #{{.OrderID}} for NT${{.TotalAmount}}.
{{with .PaymentInstructions}}
{{.}}
{{end}}
Track it any time: {{.ShareURL}}
`),
	KindPaymentReceived: parse(
		`Payment for order #{{.OrderID}} confirmed`,
		`Hi{{with .Name}} {{.}}{{end}},

Your payment of NT${{.TotalAmount}} for order #{{.OrderID}} has been confirmed. We will start processing it shortly.

Order details: {{.ShareURL}}
`),
	KindStatusUpdated: parse(
		`Order #{{.OrderID}} is now {{.Status}}`,
		`Hi{{with .Name}} {{.}}{{end}},

Order #{{.OrderID}} status: {{.Status}} (payment: {{.PaymentStatus}}).

Order details: {{.ShareURL}}
`),
	KindPaymentProof: parse(
		`Payment proof submitted for order #{{.OrderID}}`,
		`Hi{{with .Name}} {{.}}{{end}},

We received your transfer reference {{.Reference}} for order #{{.OrderID}}. Staff will verify it soon.
`),
}

var alerts = map[Kind]*template.Template{
	KindOrderCreated: template.Must(template.New("alert").Parse(
		`New {{.OrderType}} order #{{.OrderID}}: NT${{.TotalAmount}} from {{.To}}`)),
	KindPaymentProof: template.Must(template.New("alert").Parse(
		`Order #{{.OrderID}}: payment reference {{.Reference}} submitted, waiting for review`)),
}

func parse(subject, body string) message {
	return message{
		subject: template.Must(template.New("subject").Parse(subject)),
		body:    template.Must(template.New("body").Parse(body)),
	}
}

type view struct {
	Notification
	ShareURL string
}

// Render returns the email subject and body for n.
func Render(n Notification, baseURL string) (subject, body string, err error) {
	m, ok := messages[n.Kind]
	if !ok {
		return "", "", fmt.Errorf("no template for %q", n.Kind)
	}
	v := view{Notification: n}
	if n.ShareToken != "" {
		v.ShareURL = baseURL + "/orders/share/" + n.ShareToken
	}
	var s, b bytes.Buffer
	if err := m.subject.Execute(&s, v); err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}
	if err := m.body.Execute(&b, v); err != nil {
		return "", "", fmt.Errorf("render body: %w", err)
	}
	return s.String(), b.String(), nil
}

// RenderAlert returns the staff chat text, or ok=false when n is not staff-relevant.
func RenderAlert(n Notification) (text string, ok bool, err error) {
	t, ok := alerts[n.Kind]
	if !ok {
		return "", false, nil
	}
	var b bytes.Buffer
	if err := t.Execute(&b, n); err != nil {
		return "", true, fmt.Errorf("render alert: %w", err)
	}
	return b.String(), true, nil
}
