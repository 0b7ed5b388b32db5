package types

import "errors"

var (
	ErrInvalidWidth      = errors.New("integer width out of range")
	ErrInvalidElement    = errors.New("invalid element type")
	ErrZeroLengthVector  = errors.New("vector length must be positive")
	ErrScalableInStruct  = errors.New("scalable vector cannot be a struct member")
	ErrSelfContaining    = errors.New("struct contains itself by value")
	ErrRedefinition      = errors.New("named type redefined")
	ErrNotNamed          = errors.New("type is not a named struct")
	ErrInvalidReturn     = errors.New("invalid function return type")
	ErrInvalidParam      = errors.New("invalid function parameter type")
	ErrIndexOutOfRange   = errors.New("aggregate index out of range")
	ErrNotAggregate      = errors.New("type is not an aggregate")
)
