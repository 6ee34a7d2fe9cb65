package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// isoMillis matches the millisecond UTC timestamps mobile clients parse.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// LivenessResponse is the body of /healthz and /.
type LivenessResponse struct {
	OK   bool   `json:"ok"`
	Time string `json:"time"`
}

// Liveness confirms the process is serving HTTP. It never touches upstreams.
func Liveness() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, LivenessResponse{OK: true, Time: time.Now().UTC().Format(isoMillis)})
	}
}
