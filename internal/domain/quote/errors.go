package quote

import "errors"

var (
	ErrRequestNotFound      = errors.New("quote request not found")
	ErrRequestAlreadyExists = errors.New("quote request already exists")
	ErrInvalidStatus        = errors.New("invalid request status")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrAcceptNeedsPrice     = errors.New("acceptance requires price details")
	ErrFeedbackNotAllowed   = errors.New("feedback is only accepted for delivered requests")
	ErrUnknownDetailKey     = errors.New("unknown shipment detail key")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)
