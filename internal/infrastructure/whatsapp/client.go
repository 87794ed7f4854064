package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beneficlub/backoffice/internal/domain/shared"
	sharedConfig "github.com/beneficlub/backoffice/internal/shared/config"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

const defaultTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response is kept in APIError.
const maxErrorBody = 512

// Client sends text messages through an Evolution API instance.
type Client struct {
	config     sharedConfig.WhatsAppConfig
	httpClient *http.Client
	baseURL    string
	logger     logger.Interface
}

func NewClient(config sharedConfig.WhatsAppConfig, log logger.Interface) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		logger:  log,
	}
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

type sendTextResponse struct {
	Key struct {
		ID        string `json:"id"`
		RemoteJID string `json:"remoteJid"`
	} `json:"key"`
	Status string `json:"status"`
}

type errorDetail struct {
	Message json.RawMessage `json:"message"`
}

type errorResponse struct {
	Status   int         `json:"status"`
	Error    string      `json:"error"`
	Response errorDetail `json:"response"`
}

// Send delivers text to phone and returns the gateway message id.
func (c *Client) Send(ctx context.Context, phone, text string) (string, error) {
	if !c.config.IsConfigured() {
		return "", ErrNotConfigured
	}
	number := shared.NormalizePhoneBR(phone)
	if number == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}

	jsonBody, err := json.Marshal(sendTextRequest{Number: number, Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/message/sendText/%s", c.baseURL, url.PathEscape(c.config.Instance))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
		c.logger.Warnw("whatsapp send rejected",
			"status", resp.StatusCode,
			"message", apiErr.Message,
		)
		return "", apiErr
	}

	var result sendTextResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Key.ID == "" {
		return "", fmt.Errorf("whatsapp response without message id")
	}

	c.logger.Debugw("whatsapp message sent", "message_id", result.Key.ID)
	return result.Key.ID, nil
}

func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var parsed errorResponse
	if json.Unmarshal(raw, &parsed) == nil {
		if len(parsed.Response.Message) > 0 {
			return string(parsed.Response.Message)
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
