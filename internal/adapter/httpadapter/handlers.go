package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/drill-recommendation-service/internal/domain"
	"github.com/couchcryptid/drill-recommendation-service/internal/observability"
	"github.com/gin-gonic/gin"
)

// API serves recommendation and drill booking routes.
type API struct {
	index     domain.RiskIndex
	scheduler domain.DrillScheduler
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewAPI creates an API over the given risk index and drill scheduler.
func NewAPI(index domain.RiskIndex, scheduler domain.DrillScheduler, metrics *observability.Metrics, logger *slog.Logger) *API {
	return &API{index: index, scheduler: scheduler, metrics: metrics, logger: logger}
}

// RegisterRoutes mounts the API on r.
func (a *API) RegisterRoutes(r gin.IRouter) {
	r.POST("/recommendations", a.recommend)
	r.GET("/locations/:name/risks", a.locationRisks)
	r.GET("/locations/:name/stats", a.locationStats)
	r.GET("/locations/:name/modules", a.locationModules)
	r.POST("/drills", a.scheduleDrill)
}

type rosterBody struct {
	ClassID  string               `json:"class_id"`
	Students []domain.RosterEntry `json:"students"`
}

func (a *API) recommend(c *gin.Context) {
	var body rosterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid roster: " + err.Error()})
		return
	}

	rec := domain.RecommendForEvent(a.index, domain.RosterEvent{
		ClassID:  strings.TrimSpace(body.ClassID),
		Students: body.Students,
	})
	a.metrics.MergedDrills.Observe(float64(len(rec.MergedDrills)))
	a.metrics.HighRiskStudents.Observe(float64(rec.RiskSummary.HighRiskStudentCount))
	c.JSON(http.StatusOK, rec)
}

func (a *API) locationRisks(c *gin.Context) {
	name := c.Param("name")
	c.JSON(http.StatusOK, gin.H{
		"location": strings.TrimSpace(name),
		"risks":    a.index.RisksFor(name),
	})
}

func (a *API) locationStats(c *gin.Context) {
	c.JSON(http.StatusOK, domain.StatsFor(a.index, c.Param("name")))
}

func (a *API) locationModules(c *gin.Context) {
	name := c.Param("name")
	c.JSON(http.StatusOK, gin.H{
		"location": strings.TrimSpace(name),
		"modules":  domain.LearningModulesFor(a.index, name),
	})
}

type scheduleBody struct {
	ClassID              string `json:"class_id"`
	Hazard               string `json:"hazard"`
	Date                 string `json:"date"`
	Time                 string `json:"time"`
	DurationMinutes      int    `json:"duration_minutes"`
	Notes                string `json:"notes"`
	ExpectedParticipants int    `json:"expected_participants"`
}

func (a *API) scheduleDrill(c *gin.Context) {
	var body scheduleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	req := domain.ScheduleDrillRequest{
		ClassID:              strings.TrimSpace(body.ClassID),
		Hazard:               domain.HazardType(body.Hazard),
		Time:                 body.Time,
		DurationMinutes:      body.DurationMinutes,
		Notes:                body.Notes,
		ExpectedParticipants: body.ExpectedParticipants,
	}
	if h, err := domain.ParseHazardType(body.Hazard); err == nil {
		req.Hazard = h
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = domain.DefaultDrillMinutes
	}
	if body.Date != "" {
		d, err := time.Parse(time.DateOnly, body.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		req.Date = d
	}

	id, err := a.scheduler.ScheduleDrill(c.Request.Context(), req)
	switch {
	case errors.Is(err, domain.ErrInvalidScheduleRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		a.logger.Error("schedule drill", "class_id", req.ClassID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to schedule drill"})
		return
	}

	a.metrics.DrillsScheduled.WithLabelValues(string(req.Hazard)).Inc()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}
