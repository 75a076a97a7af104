package identity

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"

	"github.com/nivaranhq/nivaran/pkg/handlers"
)

// System defines the contract for request authentication.
type System interface {
	// Authenticate verifies a raw bearer token and returns its actor.
	Authenticate(ctx context.Context, rawToken string) (Actor, error)
	// Middleware wraps a handler with bearer-token verification. Requests
	// without a valid token receive 401 before reaching the handler.
	Middleware() func(http.Handler) http.Handler
}

type verifier struct {
	oidc     *oidc.IDTokenVerifier
	devToken string
	logger   *slog.Logger
}

// New creates an identity system from the given configuration. When the
// config carries only a dev token, no OIDC provider is contacted.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (System, error) {
	v := &verifier{
		devToken: cfg.DevToken,
		logger:   logger.With("system", "identity"),
	}

	if cfg.Issuer != "" {
		provider, err := oidc.NewProvider(ctx, cfg.Issuer)
		if err != nil {
			return nil, fmt.Errorf("discover oidc provider: %w", err)
		}
		v.oidc = provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})
	}

	if v.devToken != "" {
		v.logger.Warn("static dev token enabled; do not use outside local runs")
	}

	return v, nil
}

type tokenClaims struct {
	Role         string `json:"role"`
	PoliticianID string `json:"politician_id"`
}

func (v *verifier) Authenticate(ctx context.Context, rawToken string) (Actor, error) {
	if v.devToken != "" && rawToken == v.devToken {
		return Actor{UserID: "dev", Role: RoleRegistrar}, nil
	}

	if v.oidc == nil {
		return Actor{}, ErrUnauthorized
	}

	token, err := v.oidc.Verify(ctx, rawToken)
	if err != nil {
		return Actor{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	var claims tokenClaims
	if err := token.Claims(&claims); err != nil {
		return Actor{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		return Actor{}, fmt.Errorf("%w: role %q", ErrUnauthorized, claims.Role)
	}

	actor := Actor{
		UserID: token.Subject,
		Role:   role,
	}

	if claims.PoliticianID != "" {
		id, err := uuid.Parse(claims.PoliticianID)
		if err != nil {
			return Actor{}, fmt.Errorf("%w: politician_id %q", ErrUnauthorized, claims.PoliticianID)
		}
		actor.PoliticianID = id
	}

	return actor, nil
}

func (v *verifier) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				handlers.RespondError(w, v.logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			actor, err := v.Authenticate(r.Context(), raw)
			if err != nil {
				handlers.RespondError(w, v.logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}
