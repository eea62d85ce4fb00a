package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ai-timetable/api/internal/handle"
	"ai-timetable/api/internal/service"
	"ai-timetable/api/internal/widget"
)

// Bot is the part of *tgbotapi.BotAPI the router uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Router struct {
	Bot    Bot
	App    handle.App
	Loader widget.Loader
	Loc    *time.Location
	Log    *zap.Logger

	now   func() time.Time
	httpc *http.Client
}

func NewRouter(bot Bot, app handle.App, loader widget.Loader, loc *time.Location, log *zap.Logger) *Router {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		Bot:    bot,
		App:    app,
		Loader: loader,
		Loc:    loc,
		Log:    log.With(zap.String("component", "telegram")),
		now:    time.Now,
		httpc:  &http.Client{Timeout: 60 * time.Second},
	}
}

const helpText = `Send me a photo of your timetable and I'll read it.
Commands:
/today - today's classes
/week - the whole timetable
/status - extraction status
/delete - delete the timetable`

func (r *Router) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	switch msg.Command() {
	case "start", "help":
		r.send(cid, helpText)
	case "today":
		r.send(cid, widget.Summary(ctx, r.Loader, r.now().In(r.Loc)).Text())
	case "week":
		d := r.App.CurrentTimetable()
		if d == nil {
			r.send(cid, "No timetable yet. Send a photo first.")
			return
		}
		r.send(cid, FormatWeek(*d))
	case "status":
		r.send(cid, statusText(r.App))
	case "delete":
		if r.App.CurrentTimetable() == nil {
			r.send(cid, "There is no timetable to delete.")
			return
		}
		if err := r.App.DeleteTimetable(ctx); err != nil {
			r.send(cid, r.App.LastError())
			return
		}
		r.send(cid, "🗑 Timetable deleted. Send a new photo any time.")
	default:
		r.send(cid, "Unknown command.\n\n"+helpText)
	}
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	switch {
	case msg.IsCommand():
		r.HandleCommand(ctx, msg)
	case len(msg.Photo) > 0:
		// the last size is the largest
		r.acceptImage(ctx, msg.Chat.ID, msg.Photo[len(msg.Photo)-1].FileID)
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/"):
		r.acceptImage(ctx, msg.Chat.ID, msg.Document.FileID)
	default:
		r.send(msg.Chat.ID, helpText)
	}
}

func (r *Router) acceptImage(ctx context.Context, cid int64, fileID string) {
	if r.App.CurrentTimetable() != nil {
		r.send(cid, service.ErrTimetableExists.Error())
		return
	}
	url, err := r.Bot.GetFileDirectURL(fileID)
	if err != nil {
		r.sendError(cid, err)
		return
	}
	img, err := r.download(ctx, url)
	if err != nil {
		r.sendError(cid, err)
		return
	}

	r.send(cid, "📷 Photo received, reading the timetable…")
	err = r.App.SubmitImage(ctx, img)
	switch {
	case err == nil:
		d := r.App.CurrentTimetable()
		if d == nil {
			return
		}
		r.send(cid, "✅ Timetable saved.\n\n"+FormatWeek(*d))
	case errors.Is(err, service.ErrExtractionInProgress):
		r.send(cid, "Still working on the previous photo, please wait.")
	default:
		r.Log.Warn("extraction failed", zap.Int64("chat_id", cid), zap.Error(err))
		msg := r.App.LastError()
		if msg == "" {
			msg = err.Error()
		}
		r.send(cid, "❌ "+msg)
	}
}

// Notify sends a plain message; the daily digest uses it.
func (r *Router) Notify(_ context.Context, chatID int64, text string) error {
	for _, part := range split(text, maxMessageLen) {
		if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) send(chatID int64, text string) {
	if err := r.Notify(context.Background(), chatID, text); err != nil {
		r.Log.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (r *Router) sendError(chatID int64, err error) {
	r.Log.Warn("telegram file download failed", zap.Error(err))
	r.send(chatID, fmt.Sprintf("Could not download the photo: %v", err))
}

func (r *Router) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

func statusText(app handle.App) string {
	switch {
	case app.IsLoading():
		return "⏳ Reading a timetable…"
	case app.LastError() != "":
		return "⚠️ " + app.LastError()
	case app.CurrentTimetable() != nil:
		return "✅ Timetable saved."
	default:
		return "No timetable yet. Send a photo first."
	}
}
