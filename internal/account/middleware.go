package account

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/halteresai/server/internal/contexthelpers"
	"github.com/halteresai/server/internal/errors"
	"github.com/halteresai/server/internal/logging"
)

// AuthenticateMiddleware resolves the session's user and marks the request
// context as authenticated. Requests without a session pass through
// unauthenticated; gating happens further down the chain.
func (s *Service) AuthenticateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := s.sessions.GetString(ctx, userIDSessionKey)

		// User has not yet authenticated.
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.repo.get(ctx, userID)
		switch {
		case errors.Is(err, ErrNotFound): // Do not authenticate if user does not exist.
		case err != nil:
			s.logger.LogAttrs(ctx, slog.LevelError, "unable to fetch user", errors.SlogError(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		default:
			r = contexthelpers.AuthenticateContext(r, user.ID, user.IsAdmin)
		}

		// Add session information to logging context.
		token := s.sessions.Token(ctx)
		// Hash token with sha256 to avoid leaking it in logs.
		tokenHash := sha256.Sum256([]byte(token))
		ctx = logging.WithAttrs(r.Context(),
			slog.String("session_hash", hex.EncodeToString(tokenHash[:])),
			slog.String("user_id", userID),
		)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}
