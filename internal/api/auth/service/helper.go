package authService

import "Perception/internal/entity"

// MakeUserData builds the JWT claims for a logged-in user. The session ID is
// embedded so the token middleware can check the registry on every request.
func MakeUserData(user entity.User, sessionID string) map[string]interface{} {
	return map[string]interface{}{
		"username":   user.Username,
		"session_id": sessionID,
	}
}
