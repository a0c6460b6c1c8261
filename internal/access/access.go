// Package access holds the decision function applied before every protected
// operation. Handlers declare a Requirement; the engine evaluates it against
// the caller's claims and a Deny stops the request before any side effect.
package access

import (
	"github.com/checkus/checkus-api/internal/models"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
)

// Requirement declares who may run an operation: a role set, ownership of the
// target identity, or either.
type Requirement struct {
	roles    []models.UserRole
	targetID string
	hasOwner bool
}

// AnyOf allows callers holding at least one of the given roles.
func AnyOf(roles ...models.UserRole) Requirement {
	return Requirement{roles: roles}
}

// Owner allows only the caller whose subject id equals the target identity.
func Owner(targetID string) Requirement {
	return Requirement{targetID: targetID, hasOwner: true}
}

// OrOwner widens a role requirement so that the owner of the target identity
// is also allowed.
func (r Requirement) OrOwner(targetID string) Requirement {
	r.targetID = targetID
	r.hasOwner = true
	return r
}

// Authorize returns nil when the claims satisfy the requirement. Missing
// claims always deny with ErrUnauthorized; authenticated callers that fail
// the requirement deny with ErrForbidden. Both branches of a combined
// requirement are evaluated; either one satisfied allows.
func Authorize(claims *models.JWTClaims, req Requirement) error {
	if claims == nil || claims.UserID == "" {
		return appErrors.ErrUnauthorized
	}

	roleOK := false
	for _, role := range req.roles {
		if claims.HasRole(role) {
			roleOK = true
			break
		}
	}

	ownerOK := req.hasOwner && req.targetID != "" && claims.UserID == req.targetID

	if roleOK || ownerOK {
		return nil
	}
	return appErrors.ErrForbidden
}
