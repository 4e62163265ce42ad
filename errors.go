package metawards

import "fmt"

// Format-string constants used to build consistent error messages and test
// assertion messages throughout the package, in the style of the teacher
// repo's errors.go. Each taxonomy from the error handling design (spec
// section 7) gets its own block so callers and tests can recognize the
// class of failure from the constant name.

const (
	// Generic / shared
	InvalidFloatParameterError  = "invalid %s %f, %s"
	InvalidIntParameterError    = "invalid %s %d, %s"
	InvalidStringParameterError = "invalid %s %s, %s"

	UnequalFloatParameterError  = "expected %s %f, instead got %f"
	UnequalIntParameterError    = "expected %s %d, instead got %d"
	UnequalStringParameterError = "expected %s %s, instead got %s"
	UnexpectedErrorWhileError   = "encountered error while %s: %s"
	ExpectedErrorWhileError     = "expected an error while %s, instead got none"
)

const (
	// Topology errors - unresolved keys, duplicate destinations,
	// player-weight overflow, negative counts, ID collisions.
	ErrWardUnresolvedKey      = "ward %d has an unresolved destination key %v"
	ErrWardIDCollision        = "cannot change ward id to %d: it already appears as a destination in this ward"
	ErrWardDestinationMissing = "destination %v could not be resolved against the supplied Wards"
	ErrWardDuplicateKey       = "resolving %v to id %d collides with an existing key in the same map"
	ErrPlayerWeightExceedsResidual = "weight %f exceeds the residual player_total %f for destination %v"
	ErrNegativeCount          = "%s must be >= 0, got %d"
	ErrLinkEndpointOutOfRange = "link endpoint %d is out of range [1, %d]"
)

const (
	// Configuration errors - malformed JSON/CSV/TOML, missing fields,
	// array-length mismatches, out-of-range scalars.
	ErrArrayLengthMismatch = "parallel arrays must share the same length: %s has length %d, expected %d"
	ErrMissingField        = "missing required field %q in %s"
	ErrMalformedFile       = "could not parse %s: %s"
)

const (
	// Plugin resolution failures.
	ErrPluginNotFound = "could not resolve plugin %q: not found in the plugin registry under that name or module::function key"
)

const (
	// Runtime invariant violations.
	ErrNegativeSusceptibles   = "negative susceptible count at index %d: %d"
	ErrSubnetPopulationMismatch = "subnet populations for node or link %d sum to %v, expected overall %v"
	ErrNaNForceOfInfection    = "force of infection at node %d is NaN or Inf"
)

func errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
