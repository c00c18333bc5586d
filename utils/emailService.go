package utils

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"madrasa/config"
)

// SendEmail sends an HTML email through SendGrid
func SendEmail(toName, toEmail, subject, htmlBody string) error {
	from := mail.NewEmail("Madrasa Online", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if response.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", toEmail, response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	return nil
}

// getEmailTemplate wraps body content in the standard layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #0B3D2E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #0B3D2E; line-height: 1.6; }
			.content h2 { color: #0B3D2E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #C9A227; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #EAF4EF; padding: 15px; border-radius: 4px; border-left: 4px solid #C9A227; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				%s
			</div>
			<div class="footer">
				Madrasa Online &middot; This is an automated message, please do not reply.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendCertificateIssuedEmail notifies a student that their certificate is ready
func SendCertificateIssuedEmail(name, email, scopeTitle, certificateNumber string) error {
	body := fmt.Sprintf(`
		<h2>Assalamu alaikum %s,</h2>
		<p>Congratulations! Your completion certificate for <b>%s</b> has been issued.</p>
		<div class="info-box">Certificate number: <b>%s</b></div>
		<p>You can download it from your certificates page.</p>`,
		name, scopeTitle, certificateNumber)
	return SendEmail(name, email, "Your certificate is ready", getEmailTemplate("Certificate Issued", body))
}

// SendRetakeDecisionEmail notifies a student about a retake request decision
func SendRetakeDecisionEmail(name, email, examTitle string, approved bool, note string) error {
	var body, subject string
	if approved {
		subject = "Retake request approved"
		body = fmt.Sprintf(`
			<h2>Assalamu alaikum %s,</h2>
			<p>Your request to retake <b>%s</b> has been approved. The exam is open for you again.</p>`,
			name, examTitle)
	} else {
		subject = "Retake request rejected"
		body = fmt.Sprintf(`
			<h2>Assalamu alaikum %s,</h2>
			<p>Your request to retake <b>%s</b> was rejected.</p>
			<div class="info-box">%s</div>`,
			name, examTitle, note)
	}
	return SendEmail(name, email, subject, getEmailTemplate(subject, body))
}
