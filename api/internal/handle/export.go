package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ai-timetable/api/internal/export"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export serves the timetable as a download.
// GET /api/timetable/export?format=ics|xlsx
func (h *Handle) Export(c *gin.Context) {
	d := h.app.CurrentTimetable()
	if d == nil {
		writeError(c, http.StatusNotFound, "no timetable yet; upload an image first")
		return
	}

	var (
		body     []byte
		err      error
		mime     string
		filename string
	)
	switch format := c.DefaultQuery("format", "ics"); format {
	case "ics":
		body, err = export.ICS(*d, h.now(), h.loc)
		mime, filename = "text/calendar; charset=utf-8", "timetable.ics"
	case "xlsx":
		body, err = export.XLSX(*d)
		mime, filename = xlsxMIME, "timetable.xlsx"
	default:
		writeError(c, http.StatusBadRequest, "format must be ics or xlsx")
		return
	}
	if err != nil {
		h.log.Error("export failed", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "export failed")
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, mime, body)
}
