package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"medicall/models"
	"medicall/services/scheduling"
	"medicall/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const slotsCacheTTL = 30 * time.Second

// SchedulingHandler exposes slot resolution, booking and lifecycle
// endpoints.
type SchedulingHandler struct {
	Svc   scheduling.SchedulingService
	Cache *redis.Client
}

// NewSchedulingHandler constructs a SchedulingHandler.
func NewSchedulingHandler(svc scheduling.SchedulingService, cache *redis.Client) *SchedulingHandler {
	return &SchedulingHandler{Svc: svc, Cache: cache}
}

// GetAvailableSlotsHandler returns the provider's advisory slot days. The
// answer is briefly cached; staleness is safe because the booking commit
// re-checks overlap.
func (h *SchedulingHandler) GetAvailableSlotsHandler(c *gin.Context) {
	providerID := c.Param("id")
	ctx := c.Request.Context()
	cacheKey := "slots:" + providerID

	if h.Cache != nil {
		if cached, err := h.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var days models.AvailableDays
			if err := json.Unmarshal([]byte(cached), &days); err == nil {
				c.JSON(http.StatusOK, days)
				return
			}
		}
	}

	days, err := h.Svc.GetAvailableSlots(ctx, providerID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if h.Cache != nil {
		if data, err := json.Marshal(days); err == nil {
			if err := h.Cache.Set(context.Background(), cacheKey, data, slotsCacheTTL).Err(); err != nil {
				utils.GetLogger().Warn("Failed to cache slots", zap.String("providerId", providerID), zap.Error(err))
			}
		}
	}
	c.JSON(http.StatusOK, days)
}

// CreateAppointmentHandler books a slot for the authenticated patient.
func (h *SchedulingHandler) CreateAppointmentHandler(c *gin.Context) {
	var req models.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	detail, err := h.Svc.CreateAppointment(c.Request.Context(), callerID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": detail})
}

// CompleteAppointmentHandler marks the appointment COMPLETED.
func (h *SchedulingHandler) CompleteAppointmentHandler(c *gin.Context) {
	if err := h.Svc.CompleteAppointment(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CancelAppointmentHandler marks the appointment CANCELLED.
func (h *SchedulingHandler) CancelAppointmentHandler(c *gin.Context) {
	if err := h.Svc.CancelAppointment(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GenerateSessionHandler attaches a live video session to the appointment.
func (h *SchedulingHandler) GenerateSessionHandler(c *gin.Context) {
	sessionID, err := h.Svc.GenerateSession(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID})
}

// DeleteSessionHandler detaches the appointment's live session.
func (h *SchedulingHandler) DeleteSessionHandler(c *gin.Context) {
	if err := h.Svc.DeleteSession(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetAvailabilityHandler replaces the caller's availability window.
// Provider-only route.
func (h *SchedulingHandler) SetAvailabilityHandler(c *gin.Context) {
	var window models.AvailabilityWindow
	if err := c.ShouldBindJSON(&window); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := h.Svc.SetAvailability(c.Request.Context(), callerID(c), &window); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func callerID(c *gin.Context) string {
	return c.GetString("userID")
}
