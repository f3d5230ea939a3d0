package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/avilov/quizgptbot/internal/service"
)

type Bot struct {
	api        *tgbotapi.BotAPI
	controller *service.Controller
}

func NewBot(token string, controller *service.Controller) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:        api,
		controller: controller,
	}, nil
}

func (b *Bot) Start() {
	logrus.Infof("Authorised on account: %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	ctx := context.Background()

	for update := range updates {
		if update.Message != nil {
			b.handleMessage(ctx, update.Message)
		}
		if update.CallbackQuery != nil {
			b.handleCallback(ctx, update.CallbackQuery)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := message.From.ID

	switch message.Command() {
	case "start":
		b.send(chatID, b.controller.Start(userID))
	case "stats":
		b.send(chatID, b.controller.Stats(userID))
	default:
		if message.IsCommand() {
			b.send(chatID, []service.Reply{{Text: "Неизвестная команда"}})
			return
		}
		b.send(chatID, b.controller.HandleText(ctx, userID, message.Text))
	}
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	userID := callback.From.ID

	// Убираем "часики" на кнопке
	callbackConfig := tgbotapi.NewCallback(callback.ID, "")
	if _, err := b.api.Request(callbackConfig); err != nil {
		logrus.WithError(err).Error("Error answering callback")
	}

	b.send(chatID, b.controller.HandleSelection(ctx, userID, callback.Data))
}

func (b *Bot) send(chatID int64, replies []service.Reply) {
	for _, reply := range replies {
		msg := tgbotapi.NewMessage(chatID, reply.Text)

		if len(reply.Keyboard) > 0 {
			var rows [][]tgbotapi.InlineKeyboardButton
			for _, options := range reply.Keyboard {
				var buttons []tgbotapi.InlineKeyboardButton
				for _, option := range options {
					buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(option.Label, option.Data))
				}
				rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
			}
			msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
		}

		if _, err := b.api.Send(msg); err != nil {
			logrus.WithError(err).Error("Error sending message")
		}
	}
}
