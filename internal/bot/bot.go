package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/vladimiradmaev/health-tracker/internal/bot/handlers"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"golang.org/x/sync/errgroup"
)

// queueSize is the number of updates buffered per worker
const queueSize = 64

var commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Главное меню"},
	{Command: "setprofile", Description: "Создать профиль"},
	{Command: "water", Description: "Записать воду: /water 500"},
	{Command: "food", Description: "Записать еду: /food яблоко 200"},
	{Command: "workout", Description: "Записать тренировку: /workout бег 30"},
	{Command: "progress", Description: "Прогресс за сегодня"},
	{Command: "tips", Description: "Рекомендации"},
	{Command: "history", Description: "Записи за последние дни"},
	{Command: "profile", Description: "Мой профиль"},
	{Command: "reset", Description: "Сбросить данные за сегодня"},
	{Command: "cancel", Description: "Прервать создание профиля"},
	{Command: "help", Description: "Помощь"},
}

type Bot struct {
	api           *tgbotapi.BotAPI
	updateHandler *handlers.UpdateHandler
	workers       int
}

func NewBot(token string, deps handlers.Dependencies, workers int) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot authorized", "account", api.Self.UserName)
	return &Bot{
		api:           api,
		updateHandler: handlers.NewUpdateHandler(api, deps),
		workers:       max(1, workers),
	}, nil
}

// Start polls Telegram until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		logger.Warn("Failed to register bot commands", "error", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()
	logger.Info("Bot is now listening for updates", "workers", b.workers)

	err := dispatch(ctx, updates, b.workers, b.handleUpdate)
	logger.Info("Bot is shutting down")
	return err
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx = logger.NewContext(ctx,
		"correlation_id", uuid.NewString(),
		"update_id", update.UpdateID,
	)
	log := logger.WithContext(ctx)

	if msg := update.Message; msg != nil && msg.From != nil {
		log.Info("Received message", "user_id", msg.From.ID, "username", msg.From.UserName, "text", msg.Text)
	} else if q := update.CallbackQuery; q != nil && q.From != nil {
		log.Info("Received callback", "user_id", q.From.ID, "data", q.Data)
	}

	if err := b.updateHandler.Handle(ctx, update); err != nil {
		log.Error("Error handling update", "error", err)
	}
}

// dispatch fans updates out to workers. Updates of one user always land on
// the same worker, so they are handled one at a time and in arrival order.
func dispatch(ctx context.Context, updates <-chan tgbotapi.Update, workers int, handle func(context.Context, tgbotapi.Update)) error {
	g, ctx := errgroup.WithContext(ctx)

	queues := make([]chan tgbotapi.Update, workers)
	for i := range queues {
		queue := make(chan tgbotapi.Update, queueSize)
		queues[i] = queue
		g.Go(func() error {
			for update := range queue {
				if ctx.Err() != nil {
					continue
				}
				handle(ctx, update)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, queue := range queues {
				close(queue)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case update, ok := <-updates:
				if !ok {
					return nil
				}
				select {
				case queues[shard(update, workers)] <- update:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func shard(update tgbotapi.Update, workers int) int {
	var id int64
	switch {
	case update.Message != nil && update.Message.From != nil:
		id = update.Message.From.ID
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		id = update.CallbackQuery.From.ID
	}
	if id < 0 {
		id = -id
	}
	return int(id % int64(workers))
}
