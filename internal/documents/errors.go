package documents

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound covers a missing document or file reference. It is returned
	// regardless of who asks, so unrelated callers cannot probe for existence.
	ErrNotFound = errors.New("document not found")

	// ErrNotOwner rejects share attempts by anyone but the document owner.
	ErrNotOwner = errors.New("not the document owner")

	// ErrForbidden rejects reads and annotations by users who are neither the
	// owner nor the currently shared doctor.
	ErrForbidden = errors.New("access denied")

	// ErrRecipientNotFound signals that no doctor with the given username
	// exists. The share leaves the document unchanged.
	ErrRecipientNotFound = errors.New("recipient doctor not found")
)
