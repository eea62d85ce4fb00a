package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ai-timetable/api/internal/widget"
)

// Notifier delivers a text message to one chat.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// Digest posts the widget summary to a chat on a cron schedule.
type Digest struct {
	c      *cron.Cron
	loader widget.Loader
	n      Notifier
	chatID int64
	loc    *time.Location
	now    func() time.Time
	log    *zap.Logger
}

// New parses spec as a standard five-field cron expression evaluated in loc.
// An empty spec or a zero chat ID disables the digest and returns nil.
func New(spec string, chatID int64, loc *time.Location, l widget.Loader, n Notifier, log *zap.Logger) (*Digest, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || chatID == 0 {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	d := &Digest{
		c:      cron.New(cron.WithLocation(loc)),
		loader: l,
		n:      n,
		chatID: chatID,
		loc:    loc,
		now:    time.Now,
		log:    log.With(zap.String("component", "digest")),
	}
	if _, err := d.c.AddFunc(spec, d.tick); err != nil {
		return nil, fmt.Errorf("digest: bad cron %q: %w", spec, err)
	}
	return d, nil
}

func (d *Digest) Start() {
	d.log.Info("digest scheduled", zap.Int64("chat_id", d.chatID))
	d.c.Start()
}

// Stop waits for a running send to finish.
func (d *Digest) Stop() {
	<-d.c.Stop().Done()
}

func (d *Digest) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := d.Send(ctx); err != nil {
		d.log.Warn("digest send failed", zap.Error(err))
	}
}

// Send builds today's summary and delivers it once.
func (d *Digest) Send(ctx context.Context) error {
	text := Message(widget.Summary(ctx, d.loader, d.now().In(d.loc)))
	return d.n.Notify(ctx, d.chatID, text)
}

// Message is the digest text for a day.
func Message(t widget.Today) string {
	if len(t.Classes) == 0 {
		return "Good morning! No classes today (" + t.Day + ")."
	}
	return fmt.Sprintf("Good morning! You have %d class(es) today.\n\n%s", len(t.Classes), t.Text())
}
