package relay

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"
)

// TelegramAPI is the outbound delivery surface the forwarder depends on.
type TelegramAPI interface {
	SendMessage(ctx context.Context, chatID, text string) error
	SendPhoto(ctx context.Context, chatID, photoURL, caption string) error
}

// botAPI implements TelegramAPI over go-telegram/bot, always in HTML parse
// mode.
type botAPI struct {
	bot *tgbot.Bot
}

// NewBotAPI creates the Telegram client for the given bot token.
func NewBotAPI(token string) (TelegramAPI, error) {
	b, err := tgbot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return &botAPI{bot: b}, nil
}

func (a *botAPI) SendMessage(ctx context.Context, chatID, text string) error {
	_, err := a.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	return err
}

func (a *botAPI) SendPhoto(ctx context.Context, chatID, photoURL, caption string) error {
	_, err := a.bot.SendPhoto(ctx, &tgbot.SendPhotoParams{
		ChatID:    chatID,
		Photo:     &models.InputFileString{Data: photoURL},
		Caption:   caption,
		ParseMode: models.ParseModeHTML,
	})
	return err
}

// Forwarder dispatches formatted messages to the configured chat targets.
// Forward never propagates delivery errors to the caller.
type Forwarder struct {
	api     TelegramAPI
	chatIDs []string
	log     logrus.FieldLogger
}

func NewForwarder(api TelegramAPI, chatIDs []string, logger logrus.FieldLogger) *Forwarder {
	return &Forwarder{
		api:     api,
		chatIDs: chatIDs,
		log:     logger.WithField("component", "forwarder"),
	}
}

// Forward delivers the message to every chat target independently: one
// target failing never blocks the others.
func (f *Forwarder) Forward(ctx context.Context, msg Message) {
	for _, chatID := range f.chatIDs {
		f.forwardTo(ctx, normalizeChatID(chatID), msg)
	}
}

// forwardTo attempts photo+caption first when an image is present, falling
// back to a single text-only delivery. A failed fallback is logged and not
// retried further.
func (f *Forwarder) forwardTo(ctx context.Context, chatID string, msg Message) {
	log := f.log.WithField("chat_id", chatID)

	if msg.PhotoURL != "" {
		err := f.api.SendPhoto(ctx, chatID, msg.PhotoURL, msg.Caption)
		if err == nil {
			log.Info("Photo message delivered")
			return
		}
		log.WithError(err).Warn("Photo delivery failed, falling back to text")
	}

	if err := f.api.SendMessage(ctx, chatID, msg.Caption); err != nil {
		log.WithError(err).Error("Text delivery failed")
		return
	}
	log.Info("Text message delivered")
}

// normalizeChatID ensures group chat ids carry the leading minus Telegram
// expects.
func normalizeChatID(chatID string) string {
	if strings.HasPrefix(chatID, "-") {
		return chatID
	}
	return "-" + chatID
}
