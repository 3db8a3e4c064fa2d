package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Subjects for the two emails the service sends.
const (
	ConfirmationSubject = "Your BeeWise preorder is confirmed"
	NotificationSubject = "BeeWise is available — your hive awaits"
)

type templateData struct {
	Email string
	Year  int
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#fdf6e3;font-family:Helvetica,Arial,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr><td align="center" style="padding:32px 16px;">
      <table role="presentation" width="560" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;overflow:hidden;">
        <tr><td style="background:#f5a623;padding:24px;text-align:center;">
          <h1 style="margin:0;color:#ffffff;font-size:24px;">BeeWise</h1>
        </td></tr>
        <tr><td style="padding:32px;">
          <h2 style="margin-top:0;color:#333333;">You're on the list!</h2>
          <p style="color:#555555;line-height:1.6;">
            Thanks for preordering BeeWise, the smart hive monitor that keeps
            an eye on your bees so you don't have to open the hive.
          </p>
          <p style="color:#555555;line-height:1.6;">
            We registered <strong>{{.Email}}</strong> and will email you the
            moment BeeWise is ready to ship.
          </p>
          <p style="color:#555555;line-height:1.6;">— The BeeWise team</p>
        </td></tr>
        <tr><td style="background:#fdf6e3;padding:16px;text-align:center;color:#999999;font-size:12px;">
          &copy; {{.Year}} BeeWise. You received this email because you signed
          up for a BeeWise preorder.
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

var notificationTmpl = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#fdf6e3;font-family:Helvetica,Arial,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr><td align="center" style="padding:32px 16px;">
      <table role="presentation" width="560" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;overflow:hidden;">
        <tr><td style="background:#f5a623;padding:24px;text-align:center;">
          <h1 style="margin:0;color:#ffffff;font-size:24px;">BeeWise</h1>
        </td></tr>
        <tr><td style="padding:32px;">
          <h2 style="margin-top:0;color:#333333;">BeeWise is here</h2>
          <p style="color:#555555;line-height:1.6;">
            The wait is over — BeeWise is now available. As a preorder
            customer, your order ships first.
          </p>
          <p style="color:#555555;line-height:1.6;">
            Head to your account with <strong>{{.Email}}</strong> to confirm
            your shipping details.
          </p>
          <p style="color:#555555;line-height:1.6;">— The BeeWise team</p>
        </td></tr>
        <tr><td style="background:#fdf6e3;padding:16px;text-align:center;color:#999999;font-size:12px;">
          &copy; {{.Year}} BeeWise. You received this email because you signed
          up for a BeeWise preorder.
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

// ConfirmationBody renders the signup confirmation email for an address
func ConfirmationBody(email string) (string, error) {
	return render(confirmationTmpl, email)
}

// NotificationBody renders the availability notification email for an address
func NotificationBody(email string) (string, error) {
	return render(notificationTmpl, email)
}

func render(tmpl *template.Template, email string) (string, error) {
	var buf bytes.Buffer
	data := templateData{Email: email, Year: time.Now().Year()}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
