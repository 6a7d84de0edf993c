package handlers

import (
	"errors"
	"net/http"

	"inventory-service/internal/apperrors"

	"github.com/gin-gonic/gin"
)

var errMissingBranch = errors.New("branch_id query parameter is required")

// actorHeader cabecera con el id del usuario que ejecuta la operación.
// El servicio confía en el gateway que la setea; acá no se re-valida.
const actorHeader = "X-User-ID"

func actorID(c *gin.Context) string {
	return c.GetHeader(actorHeader)
}

// respondError traduce un error del dominio a la respuesta HTTP. Los
// errores tipados llevan su status; cualquier otro es un 500 genérico.
func respondError(c *gin.Context, err error) {
	if appErr := apperrors.As(err); appErr != nil {
		payload := gin.H{
			"success": false,
			"message": "❌ " + appErr.Message,
			"error":   string(appErr.Kind),
		}
		if len(appErr.Fields) > 0 {
			payload["fields"] = appErr.Fields
		}
		c.JSON(appErr.HTTPStatus(), payload)
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "❌ Error interno del servidor",
		"error":   string(apperrors.KindInternal),
	})
}

// respondBadRequest respuesta estándar para errores de binding/validación
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "❌ Datos de entrada inválidos",
		"error":   err.Error(),
	})
}

// respondOK respuesta exitosa con data
func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"message": "✅ " + message,
		"data":    data,
	})
}
