// Package authz holds the ownership check applied before every task
// mutation. It is a decision over two already-resolved ids: fetching the
// resource (and the NotFound that may come out of that) is the caller's job.
package authz

import (
	"github.com/google/uuid"

	apperrors "github.com/tasktrack/tasktrack/internal/errors"
)

// AssertOwner fails with a Forbidden outcome unless the principal owns the
// resource.
func AssertOwner(resourceOwnerID, principalUserID uuid.UUID) error {
	if resourceOwnerID != principalUserID {
		return apperrors.NewForbidden("you don't have permission to access this resource")
	}
	return nil
}
