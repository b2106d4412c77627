package services

import (
	"fmt"
	"strings"
)

func statusLabel(status string) string {
	words := strings.Split(strings.ReplaceAll(status, "_", " "), " ")

	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}

	return strings.Join(words, " ")
}

func renderStatusChangeEmail(serviceName, oldStatus, newStatus, organizationName string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif">
<h2>Service Status Change</h2>
<p>The status of <strong>%s</strong> has changed from <strong>%s</strong> to <strong>%s</strong>.</p>
<p>%s Status Page</p>
</div>`, serviceName, statusLabel(oldStatus), statusLabel(newStatus), organizationName)
}

func renderNewIncidentEmail(title, description, status, organizationName string, serviceNames []string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif">
<h2>New Incident: %s</h2>
<p>%s</p>
<p>Status: <strong>%s</strong></p>
<p>Affected services: %s</p>
<p>%s Status Page</p>
</div>`, title, description, statusLabel(status), strings.Join(serviceNames, ", "), organizationName)
}

func renderIncidentUpdateEmail(incidentTitle, message, organizationName string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif">
<h2>Incident Update: %s</h2>
<p>%s</p>
<p>%s Status Page</p>
</div>`, incidentTitle, message, organizationName)
}

func renderIncidentResolvedEmail(incidentTitle, organizationName string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif">
<h2>Incident Resolved: %s</h2>
<p>This incident has been marked as resolved.</p>
<p>%s Status Page</p>
</div>`, incidentTitle, organizationName)
}
