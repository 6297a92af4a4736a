package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"idops-controlplane/pkg/errutil"
)

// Error renders the last error attached to the gin context as a JSON body
// using the errutil status mapping. Unrecognized errors become 500s.
func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		var base errutil.BaseError
		if errors.As(last.Err, &base) {
			c.JSON(base.Code.HTTPStatus(), base.JSON())
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    errutil.StatusInternal,
				"message": last.Error(),
			},
		})
	}
}
