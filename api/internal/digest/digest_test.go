package digest

import (
	"context"
	"strings"
	"testing"
	"time"

	"ai-timetable/api/internal/timetable"
)

type staticLoader struct{ d *timetable.Data }

func (s staticLoader) Load(context.Context) *timetable.Data { return s.d }

type recorder struct {
	chatID int64
	text   string
}

func (r *recorder) Notify(_ context.Context, chatID int64, text string) error {
	r.chatID, r.text = chatID, text
	return nil
}

func TestNew_Disabled(t *testing.T) {
	for _, c := range []struct {
		spec string
		chat int64
	}{{"", 1}, {"0 7 * * *", 0}} {
		d, err := New(c.spec, c.chat, nil, staticLoader{}, &recorder{}, nil)
		if err != nil || d != nil {
			t.Fatalf("New(%q, %d) = %v, %v", c.spec, c.chat, d, err)
		}
	}
}

func TestNew_BadSpec(t *testing.T) {
	if _, err := New("every morning", 1, nil, staticLoader{}, &recorder{}, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestSend(t *testing.T) {
	data := &timetable.Data{Days: []timetable.DaySchedule{
		{Day: "MON", Classes: []timetable.ClassEntry{
			{Subject: "Math", StartTime: "9:00 AM", EndTime: "10:00 AM"},
		}},
	}}
	rec := &recorder{}
	d, err := New("0 7 * * *", 42, time.UTC, staticLoader{data}, rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	d.now = func() time.Time { return time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC) }

	if err := d.Send(context.Background()); err != nil {
		t.Fatal(err)
	}
	if rec.chatID != 42 {
		t.Errorf("chat = %d", rec.chatID)
	}
	if !strings.Contains(rec.text, "1 class(es)") || !strings.Contains(rec.text, "Math") {
		t.Errorf("text = %q", rec.text)
	}

	d.now = func() time.Time { return time.Date(2024, 1, 2, 7, 0, 0, 0, time.UTC) }
	_ = d.Send(context.Background())
	if rec.text != "Good morning! No classes today (TUE)." {
		t.Errorf("text = %q", rec.text)
	}
}

func TestStartStop(t *testing.T) {
	d, err := New("@every 1h", 1, time.UTC, staticLoader{}, &recorder{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	d.Start()
	d.Stop()
}
