package opshttp

import (
	"context"
	"errors"
	"net/http"

	"craftybot/internal/gateway/crafty"
	"craftybot/internal/logger"
	"craftybot/internal/pkg/health"

	"github.com/gin-gonic/gin"
)

type handler struct {
	panel  Lister
	health func() health.Snapshot
}

type serverView struct {
	ID   string `json:"server_id"`
	Name string `json:"server_name"`
	Type string `json:"type"`
}

// ready reports 200 only when the panel answers the server list.
func (h *handler) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()
	if _, err := h.panel.ListServers(ctx); err != nil {
		logger.Warnf("readyz: panel unreachable: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *handler) servers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()
	list, err := h.panel.ListServers(ctx)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	out := make([]serverView, 0, len(list))
	for _, s := range list {
		out = append(out, serverView{ID: s.ID.String(), Name: s.Name.String(), Type: s.Type.String()})
	}
	c.JSON(http.StatusOK, gin.H{"servers": out, "count": len(out)})
}

// panelHealth reports what the bot's own panel calls observed, without
// issuing a request.
func (h *handler) panelHealth(c *gin.Context) {
	if h.health == nil {
		c.JSON(http.StatusOK, health.Snapshot{State: health.StateUnknown.String()})
		return
	}
	c.JSON(http.StatusOK, h.health())
}

// statusFor maps a panel error onto the gateway status this endpoint returns.
func statusFor(err error) int {
	var te *crafty.TransportError
	if errors.As(err, &te) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}
