package handlers

import (
	"bookingcal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request logger from the Gin context, or the global one
// annotated with the route.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger().With(
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.String("serviceId", c.Param("serviceID")),
	)
}
