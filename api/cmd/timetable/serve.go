package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ai-timetable/api/internal/digest"
	"ai-timetable/api/internal/handle"
	"ai-timetable/api/internal/httpserver"
	"ai-timetable/api/internal/telegram"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the Telegram bot and the daily digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.service(ctx, true)
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			h := handle.New(svc, a.store, a.loc, a.log)
			r := handle.Router(h, a.log)

			if token := a.cfg.Telegram.Token; token != "" {
				stop, err := startBot(ctx, a, svc, r)
				if err != nil {
					return err
				}
				defer stop()
			} else {
				a.log.Info("TELEGRAM_BOT_TOKEN not set; bot disabled")
			}

			return httpserver.Serve(ctx, "0.0.0.0:"+a.cfg.Server.Port, r, a.log)
		},
	}
}

// startBot connects the bot in webhook or polling mode and schedules the
// digest. The returned func stops the digest.
func startBot(ctx context.Context, a *app, svc handle.App, r *gin.Engine) (func(), error) {
	bot, err := tgbotapi.NewBotAPI(a.cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	tr := telegram.NewRouter(bot, svc, a.store, a.loc, a.log)

	if base := a.cfg.Telegram.WebhookURL; base != "" {
		if err := telegram.SetWebhook(bot, base); err != nil {
			return nil, err
		}
		r.POST(telegram.WebhookPath(bot.Token), func(c *gin.Context) {
			upd, err := bot.HandleUpdate(c.Request)
			if err != nil {
				c.Status(http.StatusBadRequest)
				return
			}
			// reply fast; extraction can take a while
			go tr.HandleUpdate(context.WithoutCancel(ctx), *upd)
			c.Status(http.StatusOK)
		})
		a.log.Info("telegram webhook mode", zap.String("path", telegram.WebhookPath(bot.Token)))
	} else {
		if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			a.log.Warn("delete webhook", zap.Error(err))
		}
		go telegram.RunPolling(ctx, bot, a.log, func(upd tgbotapi.Update) {
			tr.HandleUpdate(ctx, upd)
		})
		a.log.Info("telegram polling mode")
	}

	d, err := digest.New(a.cfg.Digest.Cron, a.cfg.Digest.ChatID, a.loc, a.store, tr, a.log)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return func() {}, nil
	}
	d.Start()
	return d.Stop, nil
}
