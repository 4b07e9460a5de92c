package strokefit

import "errors"

var (
	// ErrTooFewPoints is returned when a stroke has fewer than two samples.
	ErrTooFewPoints = errors.New("stroke needs at least 2 points")
	// ErrInvalidPoint is returned for samples with NaN or infinite coordinates.
	ErrInvalidPoint = errors.New("invalid point")
	// ErrInvalidOptions is returned by [FitOptions.Validate].
	ErrInvalidOptions = errors.New("invalid fit options")
	// ErrUnsupportedCommand is returned for path commands this package does not handle.
	ErrUnsupportedCommand = errors.New("unsupported path command")
	// ErrSyntax is returned for malformed path data.
	ErrSyntax = errors.New("malformed path data")
)
