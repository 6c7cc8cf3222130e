// internal/requestinfo/middleware.go
//
// Enrich attaches a *RequestInfo to every request context.  Form handlers
// read it when recording a submission, so the UA is parsed and the GeoIP
// lookup done once per request.
//
// The client address is the first parseable entry of X-Forwarded-For, then
// X-Real-Ip, then RemoteAddr.  Folio runs behind a reverse proxy that sets
// these headers; exposed directly they are caller-controlled and only
// informational.

package requestinfo

import (
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Enrich wraps next.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		info := &RequestInfo{
			UA:        ParseUA(r.UserAgent(), r.Header.Get("Accept-Language")),
			Geo:       lookupGeo(ip),
			Timestamp: time.Now().UTC(),
		}
		zap.S().Debugw("request", "path", r.URL.Path, "ip", info.IP(),
			"country", info.Geo.CountryISO, "device", info.UA.Device, "bot", info.UA.IsBot)

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), info)))
	})
}

var forwardHeaders = []string{"X-Forwarded-For", "X-Real-Ip"}

func clientIP(r *http.Request) net.IP {
	for _, h := range forwardHeaders {
		for _, part := range strings.Split(r.Header.Get(h), ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return nil
	}
	return net.ParseIP(host)
}
