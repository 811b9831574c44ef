package main

import (
	"call-scheduler/internal/httpapi"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc, limiter *rate.Limiter) {
	// public
	r.GET("/healthz", h.Health)
	r.POST("/auth/refresh", h.Refresh)

	limited := httpapi.RateLimit(limiter)

	v1 := r.Group("/v1")
	v1.Use(authMW)
	{
		calls := v1.Group("/calls")
		{
			calls.POST("", limited, h.ScheduleCall)
			calls.GET("", h.ListCalls)
			calls.GET("/next", h.NextCall)
			calls.POST("/next/process", limited, h.ProcessNextCall)
			calls.GET("/upcoming", h.UpcomingCalls)
			calls.GET("/pending", h.PendingCalls)
			calls.GET("/history/:phone", h.CallHistory)
		}

		actions := v1.Group("/actions")
		actions.Use(limited)
		{
			actions.POST("/undo", h.Undo)
			actions.POST("/redo", h.Redo)
		}

		v1.GET("/reports/summary", h.Summary)
		v1.GET("/events", h.RecentEvents)
	}
}
