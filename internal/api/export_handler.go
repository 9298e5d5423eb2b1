package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"swimteam/swimlog/internal/logger"
	"swimteam/swimlog/internal/service"
)

// ExportHandler serves CSV downloads and archived exports.
type ExportHandler struct {
	exportService service.ExportService
	log           logger.Logger
}

func NewExportHandler(exportService service.ExportService, log logger.Logger) *ExportHandler {
	return &ExportHandler{exportService: exportService, log: log}
}

// DownloadCSV godoc
// @Summary Download one table as CSV
// @Tags Export
// @Produce text/csv
// @Security BearerAuth
// @Param swimmerId path string true "Swimmer ID"
// @Param kind path string true "training, rhr or body"
// @Param scope query string false "week (default) or all"
// @Param date query string false "Any day of the exported week"
// @Success 200 {string} string "CSV attachment"
// @Router /swimmers/{swimmerId}/export/{kind} [get]
func (h *ExportHandler) DownloadCSV(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	file, err := h.exportService.CSV(c.Request.Context(), actor, c.Param("swimmerId"), c.Param("kind"), c.Query("scope"), c.Query("date"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// Archive stores the CSV in the bucket and returns a temporary download URL.
func (h *ExportHandler) Archive(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	res, err := h.exportService.Archive(c.Request.Context(), actor, c.Param("swimmerId"), c.Param("kind"), c.Query("scope"), c.Query("date"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *ExportHandler) ListArchives(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	list, err := h.exportService.ListArchives(c.Request.Context(), actor, c.Param("swimmerId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
