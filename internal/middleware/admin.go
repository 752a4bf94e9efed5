// internal/middleware/admin.go
package middleware

import (
	"net/http"

	"maw-backend/internal/repository"
	apperrors "maw-backend/pkg/errors"
	"maw-backend/pkg/utils"
)

// AdminOnly resolves the authenticated identity to a user record and
// rejects callers without the admin flag. Must run after Auth.
func AdminOnly(users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok || userID == "" {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"authentication required",
				))
				return
			}

			user, err := users.GetByUserID(r.Context(), userID)
			if err != nil {
				utils.SendErrorResponse(w, apperrors.NewForbiddenError("admin access required"))
				return
			}

			if !user.IsAdmin {
				utils.SendErrorResponse(w, apperrors.NewForbiddenError("admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
