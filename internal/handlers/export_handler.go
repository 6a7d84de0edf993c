package handlers

import (
	"crypto/subtle"
	"net/http"

	"inventory-service/internal/apperrors"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExportHandler volcado administrativo del estado completo. Protegido
// por un secreto compartido en vez del actor habitual: lo consume un
// proceso de respaldo, no un usuario.
type ExportHandler struct {
	exportService services.ExportService
	secret        string
	logger        *zap.Logger
}

// NewExportHandler crea una nueva instancia del handler
func NewExportHandler(exportService services.ExportService, secret string, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		secret:        secret,
		logger:        logger,
	}
}

// Export GET /api/v1/export?secret=...
func (h *ExportHandler) Export(c *gin.Context) {
	if h.secret == "" {
		respondError(c, apperrors.Forbidden("export is not enabled"))
		return
	}

	provided := c.Query("secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		h.logger.Warn("Intento de export con secreto inválido",
			zap.String("remote", c.ClientIP()))
		respondError(c, apperrors.Unauthorized("invalid export secret"))
		return
	}

	snapshot, err := h.exportService.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
