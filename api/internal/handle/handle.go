package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ai-timetable/api/internal/timetable"
	"ai-timetable/api/internal/widget"
)

// App is the UI-facing surface of the timetable service.
type App interface {
	CurrentTimetable() *timetable.Data
	IsLoading() bool
	LastError() string
	SubmitImage(ctx context.Context, img []byte) error
	AddClass(ctx context.Context, dayIndex int, entry timetable.ClassEntry) error
	UpdateClass(ctx context.Context, dayIndex, classIndex int, entry timetable.ClassEntry) error
	DeleteClass(ctx context.Context, dayIndex, classIndex int) error
	DeleteTimetable(ctx context.Context) error
	DayIndex(code string) (int, bool)
}

type Handle struct {
	app    App
	loader widget.Loader
	loc    *time.Location
	now    func() time.Time
	log    *zap.Logger
}

func New(app App, loader widget.Loader, loc *time.Location, log *zap.Logger) *Handle {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handle{app: app, loader: loader, loc: loc, now: time.Now, log: log}
}

func writeJSON(c *gin.Context, code int, v any) {
	c.JSON(code, v)
}

func writeError(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

func (h *Handle) Healthz(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

type StatusResponse struct {
	Loading      bool   `json:"loading"`
	Error        string `json:"error,omitempty"`
	HasTimetable bool   `json:"hasTimetable"`
}

func (h *Handle) Status(c *gin.Context) {
	writeJSON(c, http.StatusOK, StatusResponse{
		Loading:      h.app.IsLoading(),
		Error:        h.app.LastError(),
		HasTimetable: h.app.CurrentTimetable() != nil,
	})
}

func (h *Handle) Today(c *gin.Context) {
	writeJSON(c, http.StatusOK, widget.Summary(c.Request.Context(), h.loader, h.now().In(h.loc)))
}
