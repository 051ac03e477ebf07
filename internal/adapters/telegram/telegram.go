// Package telegram is a send-only adapter used to mirror server broadcasts
// to an operator chat.
package telegram

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

type Config struct {
	Token  string
	ChatID int64
}

type Sender struct {
	bot  *tele.Bot
	chat tele.ChatID
}

func New(cfg Config) (*Sender, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat_id is empty")
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Client: &http.Client{Timeout: 8 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	return &Sender{bot: b, chat: tele.ChatID(cfg.ChatID)}, nil
}

func (s *Sender) Name() string { return "telegram" }

func (s *Sender) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.bot.Send(s.chat, text)
	return err
}
