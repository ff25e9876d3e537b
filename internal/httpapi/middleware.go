// Package httpapi is the REST control plane for CRUD on jobs: the external
// collaborator the core engine reloads through after every mutation.
package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// extractBearerToken pulls the bearer token out of the Authorization
// header, or "" if absent/malformed.
func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

// tokenMatch compares provided against expected in constant time. An empty
// expected token means auth is not configured and every request passes —
// this is the seam the out-of-scope OIDC/JWT validating middleware would
// replace in a production deployment.
func tokenMatch(provided, expected string) bool {
	if expected == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}

// requireAuth wraps next with a bearer-token check.
func requireAuth(expectedToken string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !tokenMatch(extractBearerToken(r), expectedToken) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// maxRequestBodySize caps request bodies the same way the teacher's HTTP
// layer does, to bound memory use from a misbehaving client.
const maxRequestBodySize = 1 << 20 // 1MB
