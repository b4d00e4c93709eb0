package auth

import "github.com/FACorreiaa/go-user-accounts/internal/types"

// AuthorizeOwnerAction allows a mutation only when the principal owns the
// target record. It never consults the store, so a missing target is still
// reported as types.ErrForbidden.
func AuthorizeOwnerAction(principal *types.User, targetID int64) error {
	if principal == nil || principal.ID != targetID {
		return types.ErrForbidden
	}
	return nil
}
