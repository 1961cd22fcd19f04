package quality

import "errors"

// ErrScorerUnavailable indicates the scoring backend failed or was
// unreachable. The gate surfaces this instead of silently passing.
var ErrScorerUnavailable = errors.New("quality scorer unavailable")

// ErrOverrideReasonTooShort indicates a supervisor override was attempted
// without a sufficiently detailed justification.
var ErrOverrideReasonTooShort = errors.New("override reason must be at least 20 characters")

// ErrUnknownFormType indicates a form-type discriminator outside nca|mjc.
var ErrUnknownFormType = errors.New("unknown form type")
