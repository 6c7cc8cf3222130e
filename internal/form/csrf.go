// internal/form/csrf.go
//
// Folio – Forms subsystem: stateless CSRF token and fill-time guard.
//
// Context
//   Pages fetch a token before showing a form and post it back with the
//   values.  The token is stateless:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   The embedded timestamp doubles as the render time, so one check covers
//   authenticity, expiry, and the "submitted too quickly" spam heuristic.
//
// Workflow
//   •  Guard.Token()  → token string for the page.
//   •  Guard.Check(tok) → nil, ErrBadToken, ErrTooFast, ErrExpired, or
//      ErrUsed.
//   •  Guard.Consume(tok) marks a token spent after a successful submit.
//
// Notes
//   Spent nonces live in a bounded LRU.  Under a flood of more than
//   usedCapacity successful submissions within max_form_age the oldest
//   entries fall out and those tokens could be replayed until they expire.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"

	"github.com/yanizio/folio/internal/cache"
)

const (
	nonceBytes = 16
	tokenBytes = nonceBytes + 8 + sha256.Size // nonce + ts + sig

	usedCapacity = 8192
)

// Guard errors.  All of them map to a user-facing "refresh and retry".
var (
	ErrBadToken = errors.New("security token invalid")
	ErrTooFast  = errors.New("form submitted too quickly")
	ErrExpired  = errors.New("form expired")
	ErrUsed     = errors.New("form already submitted")
)

// Guard issues and verifies tokens with one secret.
type Guard struct {
	secret  []byte
	minFill time.Duration // reject submissions faster than this
	maxAge  time.Duration // reject tokens older than this
	now     func() time.Time
	used    *cache.LRU[string, struct{}] // spent nonces
}

// NewGuard returns a Guard.  A secret shorter than 32 bytes is replaced by
// a random one, which invalidates tokens on restart.
func NewGuard(secret []byte, minFill, maxAge time.Duration) *Guard {
	if len(secret) < 32 {
		secret = make([]byte, 32)
		_, _ = rand.Read(secret)
	}
	return &Guard{
		secret:  secret,
		minFill: minFill,
		maxAge:  maxAge,
		now:     time.Now,
		used:    cache.New[string, struct{}](usedCapacity),
	}
}

// Token creates a new token stamped with the current time.
func (g *Guard) Token() (string, error) {
	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(g.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, g.sign(nonce, ts)...)
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Check verifies the signature first, then the fill-time window.
func (g *Guard) Check(tok string) error {
	nonce, err := g.verify(tok)
	if err != nil {
		return err
	}
	if _, spent := g.used.Get(string(nonce)); spent {
		return ErrUsed
	}
	return nil
}

// Consume marks tok spent so later Checks fail with ErrUsed.  Invalid
// tokens are ignored.
func (g *Guard) Consume(tok string) {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return
	}
	g.used.Add(string(raw[:nonceBytes]), struct{}{})
}

// verify checks signature and age and returns the nonce.
func (g *Guard) verify(tok string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return nil, ErrBadToken
	}

	nonce := raw[:nonceBytes]
	tsBytes := raw[nonceBytes : nonceBytes+8]
	sig := raw[nonceBytes+8:]
	if !hmac.Equal(sig, g.sign(nonce, tsBytes)) {
		return nil, ErrBadToken
	}

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	age := g.now().Sub(issued)
	switch {
	case age < -time.Minute: // clock skew beyond tolerance
		return nil, ErrBadToken
	case age < g.minFill:
		return nil, ErrTooFast
	case g.maxAge > 0 && age > g.maxAge:
		return nil, ErrExpired
	}
	return nonce, nil
}

func (g *Guard) sign(nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}
