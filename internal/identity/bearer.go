package identity

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Authenticator turns a raw bearer token into a principal snapshot.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (Principal, error)
}

// OIDCAuthenticator validates tokens against the identity provider's
// published signing keys.
type OIDCAuthenticator struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCAuthenticator discovers the issuer and prepares a token verifier.
func NewOIDCAuthenticator(ctx context.Context, issuer, audience string) (*OIDCAuthenticator, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("identity: discover provider: %w", err)
	}
	return &OIDCAuthenticator{verifier: provider.Verifier(&oidc.Config{ClientID: audience})}, nil
}

// tokenClaims mirrors the identity provider claims the portal consumes.
type tokenClaims struct {
	ObjectID          string   `json:"oid"`
	Email             string   `json:"email"`
	PreferredUsername string   `json:"preferred_username"`
	Name              string   `json:"name"`
	Groups            []string `json:"groups"`
	Department        string   `json:"department"`
}

// Authenticate verifies the token signature and builds the principal.
func (a *OIDCAuthenticator) Authenticate(ctx context.Context, rawToken string) (Principal, error) {
	token, err := a.verifier.Verify(ctx, rawToken)
	if err != nil {
		return Principal{}, fmt.Errorf("identity: verify token: %w", err)
	}
	var claims tokenClaims
	if err := token.Claims(&claims); err != nil {
		return Principal{}, fmt.Errorf("identity: parse claims: %w", err)
	}
	id := claims.ObjectID
	if id == "" {
		id = token.Subject
	}
	email := claims.Email
	if email == "" {
		email = claims.PreferredUsername
	}
	if id == "" || email == "" {
		return Principal{}, fmt.Errorf("identity: token missing subject or email")
	}
	return Principal{
		ID:          id,
		Email:       email,
		DisplayName: claims.Name,
		GroupIDs:    claims.Groups,
		Department:  claims.Department,
	}, nil
}

// Middleware verifies an Authorization bearer token when present and attaches
// the resulting principal to the request context. Requests without a token
// pass through unauthenticated; the request gate decides whether that is
// acceptable for the route.
func Middleware(auth Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			principal, err := auth.Authenticate(r.Context(), raw)
			if err != nil {
				if logger != nil {
					logger.Warn("bearer token rejected", slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
