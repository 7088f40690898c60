package quotation

import "errors"

var (
	ErrDealNotFound      = errors.New("deal not found")
	ErrQuotationNotFound = errors.New("quotation not found")
	ErrItemNotFound      = errors.New("quote item not found")
	ErrQuotationLocked   = errors.New("quotation is locked")
	ErrWrongDeal         = errors.New("quotation does not belong to deal")
	ErrValidation        = errors.New("quotation validation error")
)
