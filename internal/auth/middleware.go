package auth

import (
	"net/http"
	"strings"
)

// TokenExtractorFunc pulls a raw token out of a request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// ErrorHandlerFunc renders an authentication failure.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// MiddlewareConfig configures Middleware.
type MiddlewareConfig struct {
	Service      *Service
	Extractors   []TokenExtractorFunc // tried in order; defaults to bearer header then ?token=
	ErrorHandler ErrorHandlerFunc     // defaults to a plain 401
}

// Middleware authenticates every request and stores the resolved user in
// the request context.
func Middleware(cfg MiddlewareConfig) func(next http.Handler) http.Handler {
	if len(cfg.Extractors) == 0 {
		cfg.Extractors = []TokenExtractorFunc{BearerTokenExtractor, QueryTokenExtractor("token")}
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extract(r, cfg.Extractors)
			if token == "" {
				cfg.ErrorHandler(w, r, ErrUnauthenticated)
				return
			}

			claims, err := cfg.Service.Parse(token)
			if err != nil {
				cfg.ErrorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.User())))
		})
	}
}

func extract(r *http.Request, extractors []TokenExtractorFunc) string {
	for _, ex := range extractors {
		if token, err := ex(r); err == nil && token != "" {
			return token
		}
	}
	return ""
}

// BearerTokenExtractor reads "Authorization: Bearer <token>".
func BearerTokenExtractor(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrInvalidToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}

// QueryTokenExtractor reads the token from a query parameter. Browsers cannot
// set headers on WebSocket upgrades, so the stream endpoint relies on it.
func QueryTokenExtractor(param string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		token := r.URL.Query().Get(param)
		if token == "" {
			return "", ErrInvalidToken
		}
		return token, nil
	}
}
