// Package errs defines the sentinel errors shared by the recomp packages.
//
// Errors are returned wrapped with context (fmt.Errorf with %w), so callers should
// compare them with errors.Is rather than ==.
package errs

import "errors"

// Input errors, reported by the recompression entry points before any work starts.
var (
	// ErrAlphabetTooSmall is returned when the alphabet size is smaller than one plus the
	// largest symbol of the input, or smaller than one.
	ErrAlphabetTooSmall = errors.New("alphabet size too small for input symbols")
	// ErrInvalidWorkerCount is returned when the requested worker count is less than one.
	ErrInvalidWorkerCount = errors.New("worker count must be at least 1")
	// ErrNilStrategy is returned when a nil partition strategy is configured.
	ErrNilStrategy = errors.New("partition strategy must not be nil")
	// ErrUnknownStrategy is returned when a partition strategy name is not registered.
	ErrUnknownStrategy = errors.New("unknown partition strategy")
	// ErrInvalidTrials is returned when a randomized strategy is configured with less than one trial.
	ErrInvalidTrials = errors.New("number of trials must be at least 1")
	// ErrSymbolSpaceExhausted is returned when a level would allocate non-terminal ids
	// beyond the 32-bit symbol space.
	ErrSymbolSpaceExhausted = errors.New("symbol space exhausted")
)

// Grammar errors.
var (
	ErrEmptyGrammar       = errors.New("grammar is empty")
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrInvalidRule        = errors.New("invalid grammar rule")
	ErrInvalidRoot        = errors.New("invalid grammar root")
	ErrCyclicGrammar      = errors.New("grammar contains a cycle")
	ErrNonByteAlphabet    = errors.New("grammar terminals do not fit in a byte")
	ErrRoundTripMismatch  = errors.New("derived text does not match the input")
	ErrTextTooLarge       = errors.New("derived text too large to materialize")
)

// Container errors.
var (
	ErrInvalidHeaderSize   = errors.New("invalid header size")
	ErrInvalidMagicNumber  = errors.New("invalid magic number")
	ErrInvalidHeaderFlags  = errors.New("invalid header flags")
	ErrUnsupportedLayout   = errors.New("unsupported rule layout")
	ErrChecksumMismatch    = errors.New("checksum mismatch")
	ErrTruncatedPayload    = errors.New("truncated payload")
	ErrInvalidPayloadSize  = errors.New("invalid payload size")
	ErrInvalidFieldWidth   = errors.New("invalid bit field width")
	ErrGrammarTooLarge     = errors.New("grammar too large for container")
	ErrInvalidCompression  = errors.New("invalid compression type")
	ErrInvalidConfigValues = errors.New("invalid configuration")
)
