package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Mailer sends transactional email. Handlers depend on this interface so
// tests can swap in a fake.
type Mailer interface {
	SendOTPEmail(email, code, userName string) error
}

// BrevoMailer sends email through the Brevo transactional API
type BrevoMailer struct {
	apiKey      string
	senderEmail string
	senderName  string
	baseURL     string
	client      *http.Client
}

// NewBrevoMailer creates a mailer from environment configuration
func NewBrevoMailer() (*BrevoMailer, error) {
	apiKey := os.Getenv("BREVO_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing BREVO_API_KEY in environment variables")
	}

	senderEmail := os.Getenv("BREVO_SENDER_EMAIL")
	if senderEmail == "" {
		senderEmail = "noreply@pragatibook.com"
	}
	senderName := os.Getenv("BREVO_SENDER_NAME")
	if senderName == "" {
		senderName = "PragatiBook Support"
	}

	return &BrevoMailer{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		baseURL:     "https://api.brevo.com/v3",
		client:      &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type brevoParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoEmail struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
	TextContent string       `json:"textContent,omitempty"`
}

func (m *BrevoMailer) sendEmail(email brevoEmail) error {
	payload, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, m.baseURL+"/smtp/email", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("email sending failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("brevo API error (%d): %s", resp.StatusCode, body)
	}
	return nil
}

// SendOTPEmail delivers a password-reset code to the user
func (m *BrevoMailer) SendOTPEmail(email, code, userName string) error {
	htmlContent := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #f97316, #dc2626); color: white; padding: 30px; text-align: center;">
      <h1>PragatiBook - Password Reset</h1>
    </div>
    <div style="background: #f9fafb; padding: 30px;">
      <h2>Hello %s,</h2>
      <p>We received a request to reset your password for your PragatiBook account. Use the OTP code below to proceed with resetting your password.</p>
      <div style="background: white; border: 2px solid #f97316; border-radius: 10px; padding: 20px; text-align: center; margin: 20px 0;">
        <p><strong>Your OTP Code:</strong></p>
        <div style="font-size: 32px; font-weight: bold; color: #f97316; letter-spacing: 5px;">%s</div>
        <p><small>This code will expire in 10 minutes</small></p>
      </div>
      <p>Do not share this code with anyone. If you didn't request this, please ignore this email.</p>
    </div>
  </div>
</body>
</html>`, userName, code)

	return m.sendEmail(brevoEmail{
		Sender:      brevoParty{Name: m.senderName, Email: m.senderEmail},
		To:          []brevoParty{{Email: email}},
		Subject:     "PragatiBook - Password Reset OTP",
		HTMLContent: htmlContent,
		TextContent: fmt.Sprintf("Hello %s, your PragatiBook password reset code is %s. It expires in 10 minutes.", userName, code),
	})
}
