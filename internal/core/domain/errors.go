package domain

import "errors"

// ============================================================================
// Not Found Errors
// ============================================================================

var (
	ErrAssemblyNotFound   = errors.New("assembly not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrLinkNotFound       = errors.New("attachment is not linked to this assembly")
)

// ============================================================================
// Conflict Errors
// ============================================================================

var (
	ErrIdentityConflict = errors.New("artifact with this identity already exists")
	ErrLinkConflict     = errors.New("attachment is already linked to this assembly")
)

// ============================================================================
// Invalid Transition Errors
// ============================================================================

// Each precondition of the five lifecycle operations has its own sentinel so
// the caller can tell which check rejected the call. They all reject the
// operation identically; the distinction is diagnostic.
var (
	ErrAlreadyReserved  = errors.New("artifact is already reserved")
	ErrNotReserved      = errors.New("artifact is not reserved")
	ErrReservedByOther  = errors.New("artifact is reserved by another user")
	ErrArtifactReserved = errors.New("artifact is reserved and cannot transition")
	ErrStateFinal       = errors.New("artifact is in a final lifecycle state")
	ErrStateNotFinal    = errors.New("artifact is not in a final lifecycle state")
	ErrUnknownState     = errors.New("lifecycle state is not known to the template")
)

// ============================================================================
// Validation Errors
// ============================================================================

var (
	ErrBlankReference   = errors.New("reference cannot be blank")
	ErrBlankVersion     = errors.New("version cannot be blank")
	ErrInvalidIteration = errors.New("iteration must be a positive integer")
	ErrBlankUserID      = errors.New("user id cannot be blank")
	ErrBlankState       = errors.New("lifecycle state cannot be blank")
	ErrBlankAttribute   = errors.New("attribute cannot be blank")
	ErrUnknownTemplate  = errors.New("lifecycle template is not registered")
	ErrUnknownSchema    = errors.New("version schema is not registered")
	ErrUnknownVersion   = errors.New("version label is not valid for the schema")
)

// ============================================================================
// Availability Errors
// ============================================================================

var ErrStoreUnavailable = errors.New("artifact store is unavailable")
