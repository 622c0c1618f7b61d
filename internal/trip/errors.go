package trip

import "errors"

// Rejection kinds surfaced to callers. Every rejection is wrapped with the
// tanker/trip/rule detail the operator needs to act on; controllers map the
// sentinels to HTTP statuses with errors.Is.
var (
	// ErrInvalidTransition: requested status is not reachable from the
	// current status.
	ErrInvalidTransition = errors.New("status not reachable from current status")

	// ErrAssetGrounded: tanker is BREAKDOWN.
	ErrAssetGrounded = errors.New("tanker grounded for breakdown")

	// ErrAssetBusy: tanker already holds another blocking-status trip.
	ErrAssetBusy = errors.New("tanker already on an active trip")

	// ErrManifestIncomplete: transition requires stops that don't exist.
	ErrManifestIncomplete = errors.New("manifest incomplete")

	// ErrImmutableRecord: edit to a delivered stop or a terminal trip.
	ErrImmutableRecord = errors.New("record is immutable")

	// ErrLocationLocked: manual tanker location edit while dispatched.
	ErrLocationLocked = errors.New("tanker location locked while on trip")

	// ErrRouteUnavailable: resolver returned no candidates. Non-fatal: the
	// leg stays unset and the caller may retry.
	ErrRouteUnavailable = errors.New("no route available")
)
