package notify

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cpkimr/olympreg/internal/config"
)

// TelegramSender posts messages through the Telegram Bot API.
type TelegramSender struct {
	apiURL string
	token  string
	client *http.Client
}

func NewTelegramSender(cfg config.Telegram) *TelegramSender {
	return &TelegramSender{
		apiURL: cfg.APIURL,
		token:  cfg.BotToken,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TelegramSender) Send(chatID, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.token)
	resp, err := t.client.PostForm(endpoint, url.Values{
		"chat_id":    {chatID},
		"text":       {text},
		"parse_mode": {"Markdown"},
	})
	if err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram sendMessage: unexpected status %s", resp.Status)
	}
	return nil
}
