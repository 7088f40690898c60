package pricing

import "errors"

var ErrValidation = errors.New("pricing validation error")
