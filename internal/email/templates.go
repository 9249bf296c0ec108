package email

import (
	"fmt"
	"html"
	"strings"
)

// BuildNotificationBody builds the HTML body for a notification email.
// Blank lines in body separate paragraphs.
func BuildNotificationBody(subject, body string) string {
	var paragraphs strings.Builder
	for _, para := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		lines := strings.Split(para, "\n")
		for i, line := range lines {
			lines[i] = html.EscapeString(line)
		}
		paragraphs.WriteString(fmt.Sprintf(
			`<p style="margin: 0 0 16px 0;">%s</p>`,
			strings.Join(lines, "<br>"),
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #4f46e5 0%%, #7c3aed 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<p style="color: #e0e7ff; margin: 0; font-size: 12px; letter-spacing: 2px;">NOVA STORE UPDATES</p>
		<h1 style="color: white; margin: 8px 0 0 0; font-size: 22px;">%s</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		%s

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This message was sent automatically. Reply to this email if you need help with your order.
		</p>
	</div>
</body>
</html>`, html.EscapeString(subject), paragraphs.String())
}
