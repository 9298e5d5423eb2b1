package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"swimteam/swimlog/internal/logger"
	"swimteam/swimlog/internal/service"
)

// SwimmerHandler serves everything read or written about one swimmer:
// dashboards, row lists, comments, goals and the technique plan.
type SwimmerHandler struct {
	teamService      service.TeamService
	dashboardService service.DashboardService
	notesService     service.NotesService
	planService      service.PlanService
	log              logger.Logger
}

func NewSwimmerHandler(
	teamService service.TeamService,
	dashboardService service.DashboardService,
	notesService service.NotesService,
	planService service.PlanService,
	log logger.Logger,
) *SwimmerHandler {
	return &SwimmerHandler{
		teamService:      teamService,
		dashboardService: dashboardService,
		notesService:     notesService,
		planService:      planService,
		log:              log,
	}
}

// --- DTOs ---

type CommentRequest struct {
	Text string `json:"text" binding:"max=5000"`
}

type GoalRequest struct {
	GoalText string `json:"goalText" binding:"max=5000"`
}

type SettingsRequest struct {
	SelectedSwimmerID string `json:"selectedSwimmerId"`
	ViewMode          string `json:"viewMode" binding:"required"`
	ReferenceDate     string `json:"referenceDate"`
}

// reply writes out as JSON, or maps err.
func (h *SwimmerHandler) reply(c *gin.Context, out any, err error) {
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func listQuery(c *gin.Context) (service.ListQuery, bool) {
	q := service.ListQuery{Date: c.Query("date"), All: c.Query("scope") == service.ScopeAll}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abortWithError(c, http.StatusBadRequest, "limit must be a positive number")
			return q, false
		}
		q.Limit = n
	}
	return q, true
}

// ListSwimmers godoc
// @Summary List the swimmers of the team
// @Tags Swimmers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProfileResponse
// @Failure 403 {object} gin.H "Not a coach"
// @Router /swimmers [get]
func (h *SwimmerHandler) ListSwimmers(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	swimmers, err := h.teamService.ListSwimmers(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapProfilesToResponse(swimmers))
}

// ListTraining godoc
// @Summary Training sessions of a swimmer
// @Description The week around ?date= (default today), everything with ?scope=all, or the newest ?limit= sessions.
// @Tags Swimmers
// @Produce json
// @Security BearerAuth
// @Param swimmerId path string true "Swimmer ID"
// @Success 200 {array} domain.TrainingEntry
// @Router /swimmers/{swimmerId}/training [get]
func (h *SwimmerHandler) ListTraining(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	q, ok := listQuery(c)
	if !ok {
		return
	}
	out, err := h.dashboardService.Training(c.Request.Context(), actor, c.Param("swimmerId"), q)
	h.reply(c, out, err)
}

func (h *SwimmerHandler) ListRHR(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	q, ok := listQuery(c)
	if !ok {
		return
	}
	out, err := h.dashboardService.RHR(c.Request.Context(), actor, c.Param("swimmerId"), q)
	h.reply(c, out, err)
}

func (h *SwimmerHandler) ListBody(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	q, ok := listQuery(c)
	if !ok {
		return
	}
	out, err := h.dashboardService.Body(c.Request.Context(), actor, c.Param("swimmerId"), q)
	h.reply(c, out, err)
}

// Week godoc
// @Summary Weekly dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param swimmerId path string true "Swimmer ID"
// @Param date query string false "Any day of the week, YYYY-MM-DD"
// @Success 200 {object} service.WeekView
// @Router /swimmers/{swimmerId}/week [get]
func (h *SwimmerHandler) Week(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	out, err := h.dashboardService.Week(c.Request.Context(), actor, c.Param("swimmerId"), c.Query("date"))
	h.reply(c, out, err)
}

func (h *SwimmerHandler) EightWeeks(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	out, err := h.dashboardService.EightWeeks(c.Request.Context(), actor, c.Param("swimmerId"), c.Query("date"))
	h.reply(c, out, err)
}

func (h *SwimmerHandler) Trends(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	out, err := h.dashboardService.Trends(c.Request.Context(), actor, c.Param("swimmerId"))
	h.reply(c, out, err)
}

func (h *SwimmerHandler) RHRHistory(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "days must be a number")
			return
		}
		days = n
	}
	out, err := h.dashboardService.RHRHistory(c.Request.Context(), actor, c.Param("swimmerId"), c.Query("date"), days)
	h.reply(c, out, err)
}

func (h *SwimmerHandler) GetComment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	out, err := h.notesService.GetComment(c.Request.Context(), actor, c.Param("swimmerId"), c.Query("date"))
	h.reply(c, out, err)
}

// PutComment upserts the coach comment of the week around ?date=.
func (h *SwimmerHandler) PutComment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	out, err := h.notesService.PutComment(c.Request.Context(), actor, c.Param("swimmerId"), c.Query("date"), req.Text)
	h.reply(c, out, err)
}

func seasonYear(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "year must be a number")
		return 0, false
	}
	return year, true
}

func (h *SwimmerHandler) GetGoal(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	year, ok := seasonYear(c)
	if !ok {
		return
	}
	out, err := h.notesService.GetGoal(c.Request.Context(), actor, c.Param("swimmerId"), year)
	h.reply(c, out, err)
}

func (h *SwimmerHandler) PutGoal(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	year, ok := seasonYear(c)
	if !ok {
		return
	}
	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	out, err := h.notesService.PutGoal(c.Request.Context(), actor, c.Param("swimmerId"), year, req.GoalText)
	h.reply(c, out, err)
}

// GetPlan godoc
// @Summary Technique plan of a swimmer
// @Description Always returns the normalized shape; a stored plan that is not a JSON object answers 404.
// @Tags Plan
// @Produce json
// @Security BearerAuth
// @Param swimmerId path string true "Swimmer ID"
// @Success 200 {object} service.PlanView
// @Failure 404 {object} gin.H "No plan available"
// @Router /swimmers/{swimmerId}/plan [get]
func (h *SwimmerHandler) GetPlan(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	out, err := h.planService.Get(c.Request.Context(), actor, c.Param("swimmerId"))
	h.reply(c, out, err)
}

// PutPlan replaces the whole plan with the JSON body. Coaches only.
func (h *SwimmerHandler) PutPlan(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var raw any
	if err := c.ShouldBindJSON(&raw); err != nil {
		abortWithError(c, http.StatusBadRequest, "Plan must be valid JSON: "+err.Error())
		return
	}
	if raw == nil {
		abortWithError(c, http.StatusBadRequest, "Plan must be a JSON object")
		return
	}
	out, err := h.planService.Put(c.Request.Context(), actor, c.Param("swimmerId"), raw)
	h.reply(c, out, err)
}

func (h *SwimmerHandler) PrintPlan(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	html, err := h.planService.Print(c.Request.Context(), actor, c.Param("swimmerId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (h *SwimmerHandler) GetSettings(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	out, err := h.notesService.GetSettings(c.Request.Context(), actor)
	h.reply(c, out, err)
}

func (h *SwimmerHandler) PutSettings(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	out, err := h.notesService.PutSettings(c.Request.Context(), actor, service.SettingsInput{
		SelectedSwimmerID: req.SelectedSwimmerID,
		ViewMode:          req.ViewMode,
		ReferenceDate:     req.ReferenceDate,
	})
	h.reply(c, out, err)
}
