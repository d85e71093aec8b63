package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/acastel/ytm-tracker/internal/api/response"
)

// apiKeyEnv names the environment variable holding the shared API key.
const apiKeyEnv = "YTM_API_KEY"

// tokenLifetime bounds how far a time token may drift from the server clock
// in either direction before it is rejected.
const tokenLifetime = 5 * time.Minute

// APIKeyMiddleware guards mutating endpoints with a shared API key and a
// short-lived time token. Callers send the key in X-API-Key and a token from
// GenerateTimeToken in X-Time-Token. The key is read from the environment on
// every request, so rotating it does not require a restart.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := os.Getenv(apiKeyEnv)
		if apiKey == "" {
			response.RespondError(w, http.StatusInternalServerError, "authentication misconfigured", "Authentication not loaded")
			return
		}

		provided := r.Header.Get("X-API-Key")
		if provided == "" {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Missing API key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Invalid API key")
			return
		}

		token := r.Header.Get("X-Time-Token")
		if token == "" {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Missing Time token")
			return
		}
		if !validateTimeToken(apiKey, token, time.Now()) {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GenerateTimeToken returns a token proving possession of the API key at the
// current time. Tokens stop validating after tokenLifetime.
func GenerateTimeToken(apiKey string) string {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	payload := ts + "." + signTimestamp(apiKey, ts)
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

func validateTimeToken(apiKey, token string, now time.Time) bool {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return false
	}
	ts, mac, found := strings.Cut(string(raw), ".")
	if !found {
		return false
	}
	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	age := now.Sub(time.Unix(issued, 0))
	if age < -tokenLifetime || age > tokenLifetime {
		return false
	}
	return hmac.Equal([]byte(mac), []byte(signTimestamp(apiKey, ts)))
}

func signTimestamp(apiKey, ts string) string {
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(ts))
	return hex.EncodeToString(mac.Sum(nil))
}
