package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const telegramBaseURL = "https://api.telegram.org"

// TelegramNotifier posts run reports to one chat through the Bot API.
type TelegramNotifier struct {
	BaseURL  string
	BotToken string
	ChatID   string
	Client   *http.Client
}

type sendMessage struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// apiResult is the envelope of every Bot API reply.
type apiResult struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// NewTelegramNotifier creates a notifier. proxyURL may be empty.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if u, err := url.Parse(proxyURL); err == nil && proxyURL != "" {
		tr.Proxy = http.ProxyURL(u)
	}
	return &TelegramNotifier{
		BaseURL:  telegramBaseURL,
		BotToken: botToken,
		ChatID:   chatID,
		Client:   &http.Client{Timeout: 15 * time.Second, Transport: tr},
	}
}

// Send delivers text as an HTML message. It makes a single attempt.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(sendMessage{
		ChatID:                t.ChatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	}); err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	endpoint := t.BaseURL + "/bot" + t.BotToken + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		// the error text embeds the URL, which carries the token
		return fmt.Errorf("telegram sendMessage: %w", redact(err, t.BotToken))
	}
	defer resp.Body.Close()

	var res apiResult
	decodeErr := json.NewDecoder(resp.Body).Decode(&res)
	switch {
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("telegram sendMessage: status %d: %s", resp.StatusCode, res.Description)
	case decodeErr != nil:
		return fmt.Errorf("telegram sendMessage: decode reply: %w", decodeErr)
	case !res.OK:
		return fmt.Errorf("telegram sendMessage: error %d: %s", res.ErrorCode, res.Description)
	}
	return nil
}

func redact(err error, token string) error {
	var uerr *url.Error
	if token == "" || !errors.As(err, &uerr) {
		return err
	}
	return &url.Error{Op: uerr.Op, URL: "[redacted]", Err: uerr.Err}
}
