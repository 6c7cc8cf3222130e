//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, IP + geolocation, and timestamp).  Form
//  submissions record these next to the posted values.  The structs are
//  inert; they hold no handles, so they are safe to log or JSON-encode.
//
//  Dependencies
//  • github.com/avct/uasurfer           (UA parsing)
//  • github.com/oschwald/geoip2-golang  (MaxMind lookup, optional)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	surfer "github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// UA holds the parsed user-agent properties.
//
// Device is one of "Desktop", "Mobile", "Tablet", or "Other".
type UA struct {
	Raw         string
	Browser     string // "BrowserChrome", "BrowserFirefox", ...
	Version     string // "124.0.6367"
	OS          string
	OSVersion   string
	Device      string
	Platform    string
	IsBot       bool
	PrimaryLang string // first tag from Accept-Language ("en", "es-mx")
}

// Geo holds IP-based geolocation hints.  Fields stay empty when no
// database is loaded or the address has no match.
type Geo struct {
	IP         net.IP
	CountryISO string
	City       string
}

// RequestInfo is stored in the request context by Enrich.
type RequestInfo struct {
	UA        UA
	Geo       Geo
	Timestamp time.Time
}

// IP returns the client address as text, or "" when unknown.
func (ri *RequestInfo) IP() string {
	if ri == nil || ri.Geo.IP == nil {
		return ""
	}
	return ri.Geo.IP.String()
}

//
//  -----------------------------
//  GeoIP database
//  -----------------------------
//

// geoReader is safe for concurrent reads, which is all we ever perform.
var geoReader atomic.Pointer[geoip2.Reader]

// InitGeo opens a GeoLite2-City database.  Without it, Geo carries the IP
// only.
func InitGeo(dbPath string) error {
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return fmt.Errorf("requestinfo: open GeoLite2 DB: %w", err)
	}
	if old := geoReader.Swap(r); old != nil {
		_ = old.Close()
	}
	return nil
}

// CloseGeo releases the database opened by InitGeo.
func CloseGeo() {
	if r := geoReader.Swap(nil); r != nil {
		_ = r.Close()
	}
}

func lookupGeo(ip net.IP) Geo {
	g := Geo{IP: ip}
	r := geoReader.Load()
	if r == nil || ip == nil {
		return g
	}
	rec, err := r.City(ip)
	if err != nil {
		return g
	}
	g.CountryISO = rec.Country.IsoCode
	g.City = rec.City.Names["en"]
	return g
}

//
//  -----------------------------
//  Public helper: FromContext
//  -----------------------------
//

type ctxKey struct{}

// FromContext returns the pointer stored by Enrich, or nil if the
// middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// NewContext returns ctx carrying ri.
func NewContext(ctx context.Context, ri *RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, ri)
}

//
//  -----------------------------
//  User-agent helpers
//  -----------------------------
//

// ParseUA converts the raw headers into UA.
func ParseUA(raw, acceptLang string) UA {
	u := surfer.Parse(raw)

	ua := UA{
		Raw:         raw,
		Browser:     u.Browser.Name.String(),
		Version:     versionToString(u.Browser.Version),
		OS:          u.OS.Name.String(),
		OSVersion:   versionToString(u.OS.Version),
		Platform:    u.OS.Platform.String(),
		IsBot:       u.IsBot(),
		PrimaryLang: primaryLang(acceptLang),
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		ua.Device = "Desktop"
	case surfer.DeviceTablet:
		ua.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		ua.Device = "Mobile"
	default:
		ua.Device = "Other"
	}
	return ua
}

// versionToString renders a version in dotted form while trimming trailing
// zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	switch {
	case v.Major == 0 && v.Minor == 0 && v.Patch == 0:
		return ""
	case v.Patch != 0:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	case v.Minor != 0:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(int(v.Major))
}

// primaryLang extracts the first language tag before any ";q=" rule.
func primaryLang(al string) string {
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.ToLower(strings.TrimSpace(tag))
}
