package chi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	"github.com/kailas-cloud/opsconsole/internal/logger"
)

// SessionCookie is the cookie the browser carries the session token in.
const SessionCookie = "session"

const apiPrefix = "/api/"

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

var errNoToken = errors.New("no session token")

// Authenticator verifies HS256 session tokens issued by the platform.
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
}

// NewAuthenticator creates an Authenticator. An empty issuer accepts any issuer.
func NewAuthenticator(secret, issuer string) *Authenticator {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &Authenticator{secret: []byte(secret), parser: jwt.NewParser(opts...)}
}

// Verify parses token and returns the session it identifies.
func (a *Authenticator) Verify(token string) (domain.Session, error) {
	var claims jwt.RegisteredClaims
	_, err := a.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("verify session token: %w: %w", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return domain.Session{}, fmt.Errorf("session token has no subject: %w", domain.ErrUnauthorized)
	}
	return domain.Session{Subject: claims.Subject, Token: token}, nil
}

// tokenFromRequest reads the Bearer header, then the session cookie.
func tokenFromRequest(r *http.Request) (string, error) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(auth, bearerPrefix) {
			return "", errors.New("authorization header must use Bearer scheme")
		}
		return auth[len(bearerPrefix):], nil
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", errNoToken
}

// SessionMiddleware attaches the verified session to the request context.
// API routes without a valid session answer 401. Page routes fall through
// unauthenticated so the app shell can show the login screen.
func SessionMiddleware(a *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			api := strings.HasPrefix(r.URL.Path, apiPrefix)

			token, err := tokenFromRequest(r)
			if err == nil {
				var sess domain.Session
				sess, err = a.Verify(token)
				if err == nil {
					ctx := ContextWithSession(r.Context(), sess)
					ctx = logger.With(ctx, zap.String("subject", sess.Subject))
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if !api {
				next.ServeHTTP(w, r)
				return
			}
			if errors.Is(err, errNoToken) {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "missing session")
				return
			}
			logger.FromContext(r.Context()).Debug("Session rejected", zap.Error(err))
			writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid session")
		})
	}
}

type sessionKey struct{}

// ContextWithSession stores a verified session in the context.
func ContextWithSession(ctx context.Context, sess domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the request's session, if any.
func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(domain.Session)
	return sess, ok
}
