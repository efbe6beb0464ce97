package messagingsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/pkg/errors"

	"github.com/akademflow/backend/core"
)

var errNoBotToken = errors.New("telegram bot token is not configured")

type telegramService struct {
	bot *bot.Bot
}

var _ core.DocumentTransport = (*telegramService)(nil)

// NewTelegramService returns a transport posting documents through the Telegram Bot API.
func NewTelegramService(conf *core.Config) (core.DocumentTransport, error) {
	if conf.Telegram.BotToken == "" {
		return nil, errNoBotToken
	}
	opts := []bot.Option{bot.WithSkipGetMe()}
	if conf.Telegram.ServerURL != "" {
		opts = append(opts, bot.WithServerURL(conf.Telegram.ServerURL))
	}
	b, err := bot.New(conf.Telegram.BotToken, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating telegram bot")
	}
	return &telegramService{bot: b}, nil
}

func (svc telegramService) SendDocument(ctx context.Context, doc core.OutgoingDocument) (json.RawMessage, error) {
	params := &bot.SendDocumentParams{
		ChatID:    doc.ChatID,
		Document:  &models.InputFileUpload{Filename: doc.Filename, Data: bytes.NewReader(doc.Content)},
		Caption:   doc.Caption,
		ParseMode: models.ParseModeHTML,
	}
	if doc.TopicID != "" {
		topic, err := strconv.Atoi(doc.TopicID)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid topic id %q", doc.TopicID)
		}
		params.MessageThreadID = topic
	}

	msg, err := svc.bot.SendDocument(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "sending document")
	}
	resp, err := json.Marshal(struct {
		OK     bool            `json:"ok"`
		Result *models.Message `json:"result"`
	}{OK: true, Result: msg})
	if err != nil {
		return nil, errors.Wrap(err, "encoding telegram response")
	}
	return resp, nil
}
