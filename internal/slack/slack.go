// Package slack holds the slash-command payload and optional request signing
// checks for the chat integration endpoint.
//
// Suggestions are public, so verification is off unless a signing secret is
// configured. See https://api.slack.com/authentication/verifying-requests-from-slack.
package slack

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// InChannel makes Slack post the reply to the whole channel.
const InChannel = "in_channel"

// Message is a slash-command response. Text is markdown; Slack renders it.
type Message struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

const (
	HeaderTimestamp = "X-Slack-Request-Timestamp"
	HeaderSignature = "X-Slack-Signature"

	signatureVersion = "v0"
	// DefaultMaxSkew is the replay window Slack recommends.
	DefaultMaxSkew = 5 * time.Minute
	maxBodyBytes   = 1 << 20
)

var (
	ErrMissingHeaders   = errors.New("missing slack signature headers")
	ErrStaleRequest     = errors.New("slack request timestamp outside allowed window")
	ErrInvalidSignature = errors.New("invalid slack signature")
)

// Verifier checks Slack's v0 HMAC-SHA256 request signatures.
type Verifier struct {
	secret  []byte
	maxSkew time.Duration
	now     func() time.Time
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret), maxSkew: DefaultMaxSkew, now: time.Now}
}

// Verify validates the signature headers against the raw request body.
func (v *Verifier) Verify(h http.Header, body []byte) error {
	tsRaw := strings.TrimSpace(h.Get(HeaderTimestamp))
	sig := strings.TrimSpace(h.Get(HeaderSignature))
	if tsRaw == "" || sig == "" {
		return ErrMissingHeaders
	}
	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp %q", ErrStaleRequest, tsRaw)
	}
	skew := v.now().Sub(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > v.maxSkew {
		return ErrStaleRequest
	}
	want := sign(v.secret, tsRaw, body)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return ErrInvalidSignature
	}
	return nil
}

// Middleware rejects unsigned or badly signed requests with 401 and passes the
// rest on with their body intact.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}
		if err := v.Verify(r.Header, body); err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

// Sign computes the X-Slack-Signature value for a request body sent at ts.
func Sign(secret string, ts time.Time, body []byte) string {
	return sign([]byte(secret), strconv.FormatInt(ts.Unix(), 10), body)
}

func sign(secret []byte, ts string, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(signatureVersion + ":" + ts + ":"))
	mac.Write(body)
	return signatureVersion + "=" + hex.EncodeToString(mac.Sum(nil))
}
