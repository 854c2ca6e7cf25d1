package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioConfig holds Twilio API credentials.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// TwilioClient sends SMS through the Twilio Messages REST API.
type TwilioClient struct {
	cfg        TwilioConfig
	httpClient *http.Client
	baseURL    string
}

// NewTwilioClient returns nil when the provider is not configured so callers
// can treat SMS as an optional channel.
func NewTwilioClient(cfg TwilioConfig) *TwilioClient {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil
	}
	return &TwilioClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.twilio.com",
	}
}

func (c *TwilioClient) SendSms(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.cfg.AccountSID)

	form := url.Values{}
	form.Set("From", c.cfg.From)
	form.Set("To", to)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twilio responded %d: %s", resp.StatusCode, string(payload))
	}
	return nil
}
