package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"
)

// MsgRateLimited is the message answered when a client exceeds a limit.
const MsgRateLimited = "Demasiadas solicitudes, intenta más tarde"

// RateLimitByIP allows limit requests per client IP in each window. It guards
// the sign-in endpoint against password guessing; counters live in memory.
// Clients are keyed by the socket peer address; forwarding headers are
// ignored because any caller can set them.
func RateLimitByIP(limit int, window time.Duration) echo.MiddlewareFunc {
	return echo.WrapMiddleware(httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"message":"` + MsgRateLimited + `"}`))
		}),
	))
}
