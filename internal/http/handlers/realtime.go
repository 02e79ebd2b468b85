package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
	"github.com/voxhealth/voxhealth-backend/internal/requestdata"
	"github.com/voxhealth/voxhealth-backend/internal/sse"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *sse.Hub
}

func NewRealtimeHandler(log *logger.Logger, hub *sse.Hub) *RealtimeHandler {
	return &RealtimeHandler{
		log: log.With("handler", "RealtimeHandler"),
		hub: hub,
	}
}

// Stream subscribes the caller to their own event channel for the life
// of the connection. One subscription per connection; torn down on
// disconnect.
func (rh *RealtimeHandler) Stream(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	client := rh.hub.NewClient(userID)
	rh.hub.AddChannel(client, sse.UserChannel(userID))
	defer rh.hub.CloseClient(client)

	rh.hub.ServeHTTP(c.Writer, c.Request, client)
}
