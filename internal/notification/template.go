package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

var submissionHTML = template.Must(template.New("submission").Parse(`
<html>
<body>
    <h2>New Application Received</h2>
    <p><strong>Serial:</strong> {{.SerialNumber}}</p>
    <p><strong>Client:</strong> {{.ClientName}}</p>
    <p>Documents attached ({{.Count}}).</p>
</body>
</html>
`))

func SubmissionSubject(serialNumber, clientName string) string {
	return fmt.Sprintf("Submission: %s - %s", serialNumber, clientName)
}

func SubmissionBody(serialNumber, clientName string) string {
	return fmt.Sprintf("New Application Received.\n\nSerial: %s\nClient: %s\n\nDocuments attached.", serialNumber, clientName)
}

// SubmissionHTML renders the HTML part of the head-office notice. Client
// input is escaped.
func SubmissionHTML(email SubmissionEmail) (string, error) {
	var buf bytes.Buffer
	err := submissionHTML.Execute(&buf, struct {
		SerialNumber string
		ClientName   string
		Count        int
	}{email.SerialNumber, email.ClientName, len(email.Attachments)})
	if err != nil {
		return "", fmt.Errorf("failed to render submission email: %w", err)
	}
	return buf.String(), nil
}
