package email

import (
	"fmt"
	"html"
	"strings"
)

var lineBreaks = strings.NewReplacer("\r\n", "<br>", "\n", "<br>")

// RenderPlainText renders the text/plain part. The message is kept verbatim.
func RenderPlainText(data ContactEmailData) string {
	return fmt.Sprintf(
		"New Contact Form Submission\n\n"+
			"From: %s (%s)\n"+
			"Subject: %s\n\n"+
			"Message:\n"+
			"%s\n",
		data.SenderName,
		data.SenderEmail,
		data.Subject,
		data.Message,
	)
}

// RenderHTML renders the text/html part. Every submitted value is escaped and
// line breaks in the message become <br>.
func RenderHTML(data ContactEmailData) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body>
    <h2>New Contact Form Submission</h2>
    <p><strong>From:</strong> %s &lt;%s&gt;</p>
    <p><strong>Subject:</strong> %s</p>
    <p><strong>Message:</strong></p>
    <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px;">%s</div>
</body>
</html>`,
		html.EscapeString(data.SenderName),
		html.EscapeString(data.SenderEmail),
		html.EscapeString(data.Subject),
		lineBreaks.Replace(html.EscapeString(data.Message)),
	)
}
