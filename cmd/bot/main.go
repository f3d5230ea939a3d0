package main

import (
	"github.com/sirupsen/logrus"

	"github.com/avilov/quizgptbot/internal/config"
	"github.com/avilov/quizgptbot/internal/service"
	"github.com/avilov/quizgptbot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	generator := service.NewGenerator(cfg.OpenRouterKey, cfg.BaseURL, cfg.Model)
	store := service.NewMemorySessionStore()
	controller := service.NewController(store, generator)

	bot, err := telegram.NewBot(cfg.BotToken, controller)
	if err != nil {
		logrus.Fatal(err)
	}

	logrus.Info("🤖 Bot is starting...")
	bot.Start()
}
