package listing

import (
	"slices"
	"time"

	"classifieds-api/internal/domain/apperror"
)

// CanView reports whether subject may see l. A private listing is visible to
// its owner only; a shared one only to the members of SharedWith.
func CanView(subject string, l *Listing) bool {
	if l == nil {
		return false
	}
	switch l.Visibility {
	case Public:
		return true
	case Private:
		return subject == l.OwnerID
	case Shared:
		return slices.Contains(l.SharedWith, subject)
	}
	return false
}

// FilterVisible keeps the order of ls. An empty result must be reported as
// not found by the caller.
func FilterVisible(subject string, ls Listings) Listings {
	out := make(Listings, 0, len(ls))
	for _, l := range ls {
		if CanView(subject, l) {
			out = append(out, l)
		}
	}
	return out
}

func ValidateVisibilityTransition(v Visibility, shareSet []string) error {
	if !v.Valid() {
		return apperror.Newf(apperror.InvalidVisibilityValue, "visibility %q is not one of publico, privado, compartilhado", v)
	}
	if v == Shared && len(shareSet) == 0 {
		return apperror.New(apperror.MissingShareTargets, "shared visibility requires at least one user in compartilhado_com")
	}
	return nil
}

func AuthorizeMutation(subject string, l *Listing) error {
	if l == nil || subject != l.OwnerID {
		return apperror.New(apperror.NotAuthorized, "only the owner may modify this listing")
	}
	return nil
}

func ValidateExpiration(expiresAt, now time.Time) error {
	if !expiresAt.After(now) {
		return apperror.New(apperror.InvalidExpiration, "data_expiracao must be in the future")
	}
	return nil
}

// MergeShareTargets appends the targets not already in current, keeping order.
func MergeShareTargets(current, targets []string) []string {
	out := slices.Clone(current)
	for _, id := range targets {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
