package chi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// publicPaths are probed by orchestrators and scrapers without credentials.
// Entity and collection routes always require a key when keys are configured.
var publicPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

var (
	errMissingAuth = errors.New("missing authorization header")
	errNotBearer   = errors.New("authorization header must use Bearer scheme")
	errInvalidKey  = errors.New("invalid api key")
)

// apiKeys holds the accepted tokens. Comparison is constant-time.
type apiKeys [][]byte

func newAPIKeys(keys []string) apiKeys {
	out := make(apiKeys, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, []byte(k))
		}
	}
	return out
}

func (k apiKeys) allows(token string) bool {
	ok := 0
	for _, key := range k {
		ok |= subtle.ConstantTimeCompare(key, []byte(token))
	}
	return ok == 1
}

func bearerToken(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", errMissingAuth
	}
	const prefix = "Bearer "
	if len(auth) < len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", errNotBearer
	}
	return strings.TrimSpace(auth[len(prefix):]), nil
}

// BearerAuthMiddleware guards the entity and collection routes with API keys.
// With no keys configured the admin API is open.
func BearerAuthMiddleware(keys []string) func(http.Handler) http.Handler {
	valid := newAPIKeys(keys)

	return func(next http.Handler) http.Handler {
		if len(valid) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, err := bearerToken(r)
			if err == nil && !valid.allows(token) {
				err = errInvalidKey
			}
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="entdoc"`)
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
