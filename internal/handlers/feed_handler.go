package handlers

import (
	"context"
	"net/http"
	"time"

	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// FeedHandler feed en tiempo real de solicitudes pendientes, pensado
// para el tablero de los conductores.
type FeedHandler struct {
	requestService services.RequestService
	logger         *zap.Logger
}

// NewFeedHandler crea una nueva instancia del handler
func NewFeedHandler(requestService services.RequestService, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		requestService: requestService,
		logger:         logger,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Permitir todas las conexiones para desarrollo
	},
}

// PendingFeed GET /api/v1/requests/ws
// Empuja la lista de solicitudes pendientes cada 10 segundos.
func (h *FeedHandler) PendingFeed(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "pending_feed"))

	actor := actorID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Error actualizando a WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	logger.Info("Conexión WebSocket establecida", zap.String("actor_id", actor))

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ctx := c.Request.Context()

	// Primer push inmediato, después cada tick
	if !h.push(ctx, conn, actor, logger) {
		return
	}

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !h.push(ctx, conn, actor, logger) {
				return
			}
		case <-c.Request.Context().Done():
			logger.Info("Conexión WebSocket cerrada por contexto")
			return
		}
	}
}

// push consulta con el contexto de la conexión, así la consulta se
// cancela junto con el cliente.
func (h *FeedHandler) push(ctx context.Context, conn *websocket.Conn, actor string, logger *zap.Logger) bool {
	pending, err := h.requestService.ListPending(ctx, actor)
	if err != nil {
		logger.Error("Error obteniendo solicitudes pendientes", zap.Error(err))
		conn.WriteJSON(gin.H{"error": err.Error()})
		return false
	}

	if err := conn.WriteJSON(gin.H{
		"pending":   pending,
		"count":     len(pending),
		"timestamp": time.Now().Format(time.RFC3339),
	}); err != nil {
		logger.Error("Error enviando feed por WebSocket", zap.Error(err))
		return false
	}

	logger.Debug("Feed enviado", zap.Int("count", len(pending)))
	return true
}
