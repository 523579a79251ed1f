// Package notify sends an optional run-completion summary over
// Telegram. Delivery is best-effort: failures are reported to the
// caller for logging and never fail the run itself.
package notify

import (
	"fmt"
	"net/http"
	"time"

	"github.com/geradorbr/cnpj-tools/internal/config"
	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
	applog "github.com/geradorbr/cnpj-tools/pkg/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const component = "notify.telegram"

// sendTimeout bounds the whole exchange, bot handshake included.
const sendTimeout = 10 * time.Second

// Telegram delivers short text messages to one chat.
type Telegram struct {
	cfg config.TelegramConfig

	// endpoint is the Bot API URL template; tests point it at a local
	// server.
	endpoint string
}

// NewTelegram builds the notifier; call Enabled before Send.
func NewTelegram(cfg config.TelegramConfig) *Telegram {
	return &Telegram{
		cfg:      cfg,
		endpoint: tgbotapi.APIEndpoint,
	}
}

// Enabled reports whether credentials are configured.
func (n *Telegram) Enabled() bool {
	return n.cfg.Enabled()
}

// Send delivers one message to the configured chat.
func (n *Telegram) Send(text string) error {
	if !n.Enabled() {
		return nil
	}

	client := &http.Client{Timeout: sendTimeout}
	bot, err := tgbotapi.NewBotAPIWithClient(n.cfg.BotToken, n.endpoint, client)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "failed to connect to the Telegram Bot API")
	}

	msg := tgbotapi.NewMessage(n.cfg.ChatID, text)
	if _, err := bot.Send(msg); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "failed to send the Telegram message")
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"chat_id": n.cfg.ChatID,
		"token":   applog.MaskSensitiveData(n.cfg.BotToken),
	}).Debug("run summary delivered")

	return nil
}

// RunSummary formats the completion message for a generation or check
// run.
func RunSummary(app string, written uint64, target uint64, err error) string {
	switch {
	case err != nil:
		return fmt.Sprintf("%s: run finished with an error after %d identifiers: %v", app, written, err)
	case target > 0 && written < target:
		return fmt.Sprintf("%s: run ended short: %d of %d identifiers", app, written, target)
	default:
		return fmt.Sprintf("%s: run completed: %d identifiers", app, written)
	}
}
