package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swimteam/swimlog/internal/logger"
	"swimteam/swimlog/internal/service"
)

// LogHandler accepts new and edited training, RHR and body rows.
type LogHandler struct {
	logService service.LogService
	log        logger.Logger
}

func NewLogHandler(logService service.LogService, log logger.Logger) *LogHandler {
	return &LogHandler{logService: logService, log: log}
}

// bindAndCall binds the JSON body into in, runs call and writes its result
// with status.
func bindAndCall[T any, R any](c *gin.Context, log logger.Logger, status int, call func(service.Actor, T) (R, error)) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var in T
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	out, err := call(actor, in)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(status, out)
}

// CreateTraining godoc
// @Summary Log a training session for the signed-in swimmer
// @Tags Log
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body service.TrainingInput true "Training session"
// @Success 201 {object} domain.TrainingEntry
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Not a swimmer"
// @Router /training [post]
func (h *LogHandler) CreateTraining(c *gin.Context) {
	bindAndCall(c, h.log, http.StatusCreated, func(a service.Actor, in service.TrainingInput) (any, error) {
		return h.logService.AddTraining(c.Request.Context(), a, in)
	})
}

func (h *LogHandler) UpdateTraining(c *gin.Context) {
	bindAndCall(c, h.log, http.StatusOK, func(a service.Actor, in service.TrainingInput) (any, error) {
		return h.logService.UpdateTraining(c.Request.Context(), a, c.Param("id"), in)
	})
}

// RecordRHR stores the morning resting heart rate; a second value for the
// same date replaces the first.
func (h *LogHandler) RecordRHR(c *gin.Context) {
	bindAndCall(c, h.log, http.StatusOK, func(a service.Actor, in service.RHRInput) (any, error) {
		return h.logService.RecordRHR(c.Request.Context(), a, in)
	})
}

func (h *LogHandler) UpdateRHR(c *gin.Context) {
	bindAndCall(c, h.log, http.StatusOK, func(a service.Actor, in service.RHRInput) (any, error) {
		return h.logService.UpdateRHR(c.Request.Context(), a, c.Param("id"), in)
	})
}

func (h *LogHandler) CreateBody(c *gin.Context) {
	bindAndCall(c, h.log, http.StatusCreated, func(a service.Actor, in service.BodyInput) (any, error) {
		return h.logService.AddBody(c.Request.Context(), a, in)
	})
}

func (h *LogHandler) UpdateBody(c *gin.Context) {
	bindAndCall(c, h.log, http.StatusOK, func(a service.Actor, in service.BodyInput) (any, error) {
		return h.logService.UpdateBody(c.Request.Context(), a, c.Param("id"), in)
	})
}
