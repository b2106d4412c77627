package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Mailer delivers notification emails through the Resend HTTP API.
type Mailer struct {
	apiKey   string
	domain   string
	endpoint string
	client   *http.Client
}

func NewMailer(apiKey, domain string) *Mailer {
	if domain == "" {
		domain = "example.com"
	}

	return &Mailer{
		apiKey:   apiKey,
		domain:   domain,
		endpoint: resendEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func NewMailerFromEnv() *Mailer {
	return NewMailer(os.Getenv("RESEND_API_KEY"), os.Getenv("RESEND_DOMAIN"))
}

func (m *Mailer) Send(to []string, subject, html string) error {
	if m.apiKey == "" {
		return fmt.Errorf("mailer is not configured (RESEND_API_KEY is empty)")
	}

	if len(to) == 0 {
		return nil
	}

	payload := emailRequest{
		From:    fmt.Sprintf("Status Page <notifications@%s>", m.domain),
		To:      to,
		Subject: subject,
		HTML:    html,
	}

	body, err := json.Marshal(payload)

	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.endpoint, bytes.NewReader(body))

	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("email API returned status %s", resp.Status)
	}

	return nil
}
