package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrInvalidResponse is returned when the model response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model refuses the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during generation")

	// ErrInvalidConfig is returned when a completer configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyInput is returned when the text to work on is empty
	ErrEmptyInput = errors.New("generation input cannot be empty")
)

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrContentBlocked) || errors.Is(err, ErrInvalidResponse) || errors.Is(err, ErrInvalidConfig) {
		return false
	}
	return errors.Is(err, ErrTransientFailure)
}
