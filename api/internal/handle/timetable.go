package handle

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ai-timetable/api/internal/extract"
	"ai-timetable/api/internal/service"
	"ai-timetable/api/internal/store"
	"ai-timetable/api/internal/timetable"
	"ai-timetable/api/internal/util"
)

const maxImageBytes = 20 << 20

func (h *Handle) GetTimetable(c *gin.Context) {
	d := h.app.CurrentTimetable()
	if d == nil {
		writeError(c, http.StatusNotFound, "no timetable yet; upload an image first")
		return
	}
	writeJSON(c, http.StatusOK, d)
}

type imageRequest struct {
	ImageB64 string `json:"image_b64"`
}

// readImage accepts a multipart "image" field, a JSON body with image_b64
// (plain base64 or a data URL), or the raw image bytes.
func readImage(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)

	ct := c.ContentType()
	switch {
	case strings.HasPrefix(ct, "multipart/"):
		fh, err := c.FormFile("image")
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	case ct == "application/json":
		var req imageRequest
		if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
			return nil, err
		}
		img, _, err := util.DecodeBase64MaybeDataURL(req.ImageB64)
		return img, err
	default:
		return io.ReadAll(c.Request.Body)
	}
}

func (h *Handle) SubmitImage(c *gin.Context) {
	img, err := readImage(c)
	if err != nil || len(img) == 0 {
		writeError(c, http.StatusBadRequest, "bad image")
		return
	}

	err = h.app.SubmitImage(c.Request.Context(), img)
	var pe *store.PersistError
	switch {
	case err == nil:
		writeJSON(c, http.StatusCreated, h.app.CurrentTimetable())
	case errors.Is(err, service.ErrTimetableExists), errors.Is(err, service.ErrExtractionInProgress):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, extract.ErrModel):
		writeError(c, http.StatusBadGateway, h.app.LastError())
	case errors.As(err, &pe):
		h.log.Error("timetable extracted but not saved", zap.Error(err))
		writeError(c, http.StatusInternalServerError, h.app.LastError())
	default:
		writeError(c, http.StatusUnprocessableEntity, h.app.LastError())
	}
}

func (h *Handle) DeleteTimetable(c *gin.Context) {
	if err := h.app.DeleteTimetable(c.Request.Context()); err != nil {
		writeError(c, http.StatusInternalServerError, h.app.LastError())
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handle) AddClass(c *gin.Context) {
	day, ok := h.dayIndex(c)
	if !ok {
		return
	}
	entry, ok := bindEntry(c)
	if !ok {
		return
	}
	h.finish(c, h.app.AddClass(c.Request.Context(), day, entry))
}

func (h *Handle) UpdateClass(c *gin.Context) {
	day, ok := h.dayIndex(c)
	if !ok {
		return
	}
	class, ok := classIndex(c)
	if !ok {
		return
	}
	entry, ok := bindEntry(c)
	if !ok {
		return
	}
	h.finish(c, h.app.UpdateClass(c.Request.Context(), day, class, entry))
}

func (h *Handle) DeleteClass(c *gin.Context) {
	day, ok := h.dayIndex(c)
	if !ok {
		return
	}
	class, ok := classIndex(c)
	if !ok {
		return
	}
	h.finish(c, h.app.DeleteClass(c.Request.Context(), day, class))
}

// finish answers an edit with the timetable as it is now in memory. A failed
// save still returns it, alongside the error.
func (h *Handle) finish(c *gin.Context, err error) {
	if err != nil {
		writeJSON(c, http.StatusInternalServerError, gin.H{
			"error":     h.app.LastError(),
			"timetable": h.app.CurrentTimetable(),
		})
		return
	}
	writeJSON(c, http.StatusOK, h.app.CurrentTimetable())
}

// dayIndex accepts either a position ("0") or a day code ("MON").
func (h *Handle) dayIndex(c *gin.Context) (int, bool) {
	if h.app.CurrentTimetable() == nil {
		writeError(c, http.StatusNotFound, "no timetable yet; upload an image first")
		return 0, false
	}
	raw := c.Param("day")
	if i, err := strconv.Atoi(raw); err == nil {
		return i, true
	}
	if i, ok := h.app.DayIndex(raw); ok {
		return i, true
	}
	writeError(c, http.StatusNotFound, "unknown day "+raw)
	return 0, false
}

func classIndex(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("class"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "class must be an index")
		return 0, false
	}
	return i, true
}

func bindEntry(c *gin.Context) (timetable.ClassEntry, bool) {
	var e timetable.ClassEntry
	if err := c.ShouldBindJSON(&e); err != nil {
		writeError(c, http.StatusBadRequest, "bad json: "+err.Error())
		return e, false
	}
	if strings.TrimSpace(e.Subject) == "" {
		writeError(c, http.StatusBadRequest, "subject is required")
		return e, false
	}
	return e, true
}
