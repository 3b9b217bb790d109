package api

import (
	"fmt"
	"net/http"

	"Jaffer/backend/go/internal/models"
	"Jaffer/backend/go/pkg/httpmiddleware"
	"Jaffer/backend/go/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery 捕获处理函数中的 panic，记录日志并返回统一的 {"detail": ...} 结构。
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.WithTrace(httpmiddleware.TraceID(c)).
			WithError(models.ErrorInfo{Message: fmt.Sprint(recovered), Type: "Panic", StatusCode: http.StatusInternalServerError}).
			Error("处理请求时发生 panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
	})
}
