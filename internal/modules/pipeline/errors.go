package pipeline

import "errors"

var (
	ErrDealNotFound            = errors.New("deal not found")
	ErrInvalidTransition       = errors.New("invalid stage transition")
	ErrConcurrentModification  = errors.New("deal stage changed concurrently")
	ErrEventDateRequired       = errors.New("event date required for approval")
	ErrActiveQuotationRequired = errors.New("exactly one active quotation required")
	ErrAdminOnly               = errors.New("administrative role required")
)
