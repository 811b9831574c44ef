package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"call-scheduler/internal/audit"
	"call-scheduler/internal/auth"
	"call-scheduler/internal/calls"
	"call-scheduler/internal/reporting"
	"call-scheduler/internal/scheduler"
	"call-scheduler/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth      *auth.Manager
	Scheduler *scheduler.Scheduler
	Reports   *reporting.Service
	Events    *audit.Service
}

func (h Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "scheduler": h.Scheduler.Stats()})
}

// --- Auth ---

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h Handlers) Refresh(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "refresh_token required"})
		return
	}
	pair, err := h.Auth.Refresh(req.RefreshToken, time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

// --- Calls ---

type scheduleRequest struct {
	ContactName   string    `json:"contact_name"`
	PhoneNumber   string    `json:"phone_number"`
	ScheduledTime time.Time `json:"scheduled_time"`
	CallType      string    `json:"call_type"`
	// Absent keeps the call type default; any sent value is range checked.
	Priority *int   `json:"priority,omitempty"`
	Platform string `json:"platform,omitempty"`
	Category string `json:"category,omitempty"`
}

func (r scheduleRequest) call() calls.Call {
	kind, ok := calls.ParseKind(r.CallType)
	if !ok {
		// Left for the scheduler to reject.
		kind = calls.Kind(strings.ToUpper(strings.TrimSpace(r.CallType)))
	}
	details := r.Platform
	if kind == calls.KindEmergency {
		details = r.Category
	}
	c := calls.Build(kind, strings.TrimSpace(r.ContactName), strings.TrimSpace(r.PhoneNumber), r.ScheduledTime, 0, details)
	if r.Priority != nil {
		c = c.WithPriority(*r.Priority)
	}
	return c
}

func (h Handlers) ScheduleCall(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.ContactName == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "contact_name required"})
		return
	}
	out, err := h.Scheduler.Schedule(c.Request.Context(), req.call())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) ListCalls(c *gin.Context) {
	rows, err := h.Scheduler.AllCalls(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": rows})
}

func (h Handlers) NextCall(c *gin.Context) {
	next, ok := h.Scheduler.Next()
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no pending calls"})
		return
	}
	c.JSON(http.StatusOK, next)
}

func (h Handlers) ProcessNextCall(c *gin.Context) {
	done, ok, err := h.Scheduler.ProcessNext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no pending calls"})
		return
	}
	c.JSON(http.StatusOK, done)
}

func (h Handlers) UpcomingCalls(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"calls": h.Scheduler.Upcoming()})
}

func (h Handlers) PendingCalls(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"calls": h.Scheduler.PendingCalls()})
}

func (h Handlers) CallHistory(c *gin.Context) {
	phone := strings.TrimSpace(c.Param("phone"))
	if !calls.ValidatePhone(phone) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid phone number format"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"phone_number": phone, "calls": h.Scheduler.History(phone)})
}

// --- Actions ---

func (h Handlers) Undo(c *gin.Context) {
	a, err := h.Scheduler.Undo(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h Handlers) Redo(c *gin.Context) {
	a, err := h.Scheduler.Redo(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// --- Reports ---

func (h Handlers) Summary(c *gin.Context) {
	if h.Reports == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	var req reporting.SummaryRequest
	req.PhoneNumber = strings.TrimSpace(c.Query("phone"))
	for _, q := range []struct {
		key string
		dst *time.Time
	}{{"from", &req.Range.From}, {"to", &req.Range.To}} {
		v := c.Query(q.key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": q.key + " must be RFC3339"})
			return
		}
		*q.dst = t
	}

	sum, err := h.Reports.Summary(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h Handlers) RecentEvents(c *gin.Context) {
	if h.Events == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "events not configured"})
		return
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	evs, err := h.Events.Recent(c.Request.Context(), limit)
	if err != nil {
		logger.FromGin(c).Error("events lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "events unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": evs})
}
