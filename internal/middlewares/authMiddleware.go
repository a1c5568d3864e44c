package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"notely/internal/models"
	"notely/internal/repositories"
	"notely/internal/utils"
)

type contextKey struct{}

var userContextKey = contextKey{}

// AuthMiddleware is the session guard: it validates the bearer token,
// resolves it to a live user record and passes that user to downstream
// handlers through the request context.
type AuthMiddleware struct {
	userRepo repositories.UserRepository
}

func NewAuthMiddleware(userRepo repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{userRepo: userRepo}
}

func (m *AuthMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.SendJSONError(w, "Authorization token required in \"Bearer <token>\" format", http.StatusUnauthorized)
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ParseJWT(tokenString)
		if err != nil {
			utils.SendJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.SendJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		user, err := m.userRepo.FindByID(r.Context(), userID)
		if err != nil {
			log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to resolve token subject")
			utils.SendJSONError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if user == nil {
			utils.SendJSONError(w, "User associated with this token no longer exists", http.StatusUnauthorized)
			return
		}

		// Credential material stays out of the request context.
		user.Password = ""

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the user resolved by the session guard.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}
