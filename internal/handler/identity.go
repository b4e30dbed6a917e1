package handler

import (
	"net/http"
	"strings"

	"github.com/trustmart/order-service/internal/domain/auth"
)

// Identity headers injected by the gateway after JWT validation.
const (
	headerUserID   = "X-User-Id"
	headerUserName = "X-User-Name"
	headerRoles    = "X-User-Roles"
)

// identityFrom extracts the caller identity from the gateway headers. The
// second return value is false when no authenticated user is attached.
func identityFrom(r *http.Request) (auth.Identity, bool) {
	userID := r.Header.Get(headerUserID)
	if userID == "" {
		return auth.Identity{}, false
	}

	var roles []string
	if raw := r.Header.Get(headerRoles); raw != "" {
		for _, role := range strings.Split(raw, ",") {
			if role = strings.TrimSpace(role); role != "" {
				roles = append(roles, role)
			}
		}
	}

	return auth.Identity{
		UserID:   userID,
		Username: r.Header.Get(headerUserName),
		Roles:    roles,
	}, true
}
