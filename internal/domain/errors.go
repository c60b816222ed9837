package domain

import "errors"

var (
	// Not-found class.
	ErrItemNotFound      = errors.New("item not found")
	ErrOperationNotFound = errors.New("operation not found")

	// Invalid-input class.
	ErrInvalidIncrement = errors.New("invalid incrementation to bid price")

	// State-conflict class.
	ErrItemNotBiddable     = errors.New("item is not available for bidding")
	ErrItemNotTransferable = errors.New("item not available for transfer")

	// Cache divergence: business logic implies the entry must exist.
	ErrCurrentBidMissing = errors.New("bids not found despite not being initial bid")

	// Upstream responded with a status this service does not recognize.
	ErrUnexpectedLedgerResponse = errors.New("unexpected ledger response")
)

// LedgerRejection is an explicit "error" status from the external ledger.
// It is surfaced to the caller verbatim as a client error, unlike transport
// failures which are internal.
type LedgerRejection struct {
	Message string
}

func (e *LedgerRejection) Error() string {
	return e.Message
}
