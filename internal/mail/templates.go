package mail

import (
	"fmt"
	"html"
)

// WelcomeEmail renders the portal welcome email carrying the temporary
// password issued at activation.
func WelcomeEmail(firstName string, email string, tempPassword string) (subject string, body string) {
	subject = "Welcome to your CircleTel customer portal"
	body = fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Your CircleTel customer portal account is ready.</p>
<p>Sign in with:</p>
<ul>
<li>Email: <strong>%s</strong></li>
<li>Temporary password: <strong>%s</strong></li>
</ul>
<p>You will be asked to choose a new password on first sign-in.</p>
<p>CircleTel Support</p>
</body></html>`, htmlEscape(firstName), htmlEscape(email), htmlEscape(tempPassword))
	return subject, body
}

// PaymentReceivedEmail confirms a settled payment against an order.
func PaymentReceivedEmail(firstName string, orderRef string, amount string) (subject string, body string) {
	subject = fmt.Sprintf("Payment received for order %s", orderRef)
	body = fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>We received your payment of %s for order <strong>%s</strong>.</p>
<p>We will be in touch to schedule your installation.</p>
<p>CircleTel Support</p>
</body></html>`, htmlEscape(firstName), htmlEscape(amount), htmlEscape(orderRef))
	return subject, body
}

// OrderActivatedEmail announces that the service is live.
func OrderActivatedEmail(firstName string, orderRef string, packageName string) (subject string, body string) {
	subject = fmt.Sprintf("Your CircleTel service is active (order %s)", orderRef)
	body = fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Your <strong>%s</strong> service on order <strong>%s</strong> is now active.</p>
<p>Enjoy your connection!</p>
<p>CircleTel Support</p>
</body></html>`, htmlEscape(firstName), htmlEscape(packageName), htmlEscape(orderRef))
	return subject, body
}

// AdminAlertEmail is sent to the operations inbox when a pipeline step
// fails in a way that needs manual remediation.
func AdminAlertEmail(action string, detail string) (subject string, body string) {
	subject = fmt.Sprintf("[CircleTel] attention required: %s", action)
	body = fmt.Sprintf(`<html><body>
<p>An automated pipeline step needs manual follow-up.</p>
<p><strong>Action:</strong> %s</p>
<p><strong>Detail:</strong> %s</p>
</body></html>`, htmlEscape(action), htmlEscape(detail))
	return subject, body
}

func htmlEscape(s string) string { return html.EscapeString(s) }
