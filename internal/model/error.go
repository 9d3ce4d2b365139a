package model

import "errors"

// ErrorKind classifies a domain error so the HTTP layer can pick a status code.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidPromoCode   = "INVALID_PROMO_CODE"
	ErrCodeInvalidPromoLength = "INVALID_PROMO_LENGTH"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeBillNotFound       = "BILL_NOT_FOUND"
	ErrCodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrCodeInvalidTransition  = "INVALID_TRANSITION"
	ErrCodeEmptyCart          = "EMPTY_CART"
	ErrCodeCartItemNotFound   = "CART_ITEM_NOT_FOUND"
	ErrCodeStatusConflict     = "STATUS_CONFLICT"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure that is safe to show to the client.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a 400-class error with a free-form message.
func NewValidationError(message string) *DomainError {
	return NewDomainError(KindValidation, ErrCodeValidation, message)
}

// AsDomainError unwraps err into a *DomainError if it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	de, ok := AsDomainError(err)
	return ok && de.Kind == kind
}

// Common domain errors
var (
	ErrInvalidPromoCode   = NewDomainError(KindValidation, ErrCodeInvalidPromoCode, "Promo code is not valid")
	ErrInvalidPromoLength = NewDomainError(KindValidation, ErrCodeInvalidPromoLength, "Promo code must be between 8 and 10 characters")
	ErrProductNotFound    = NewDomainError(KindNotFound, ErrCodeProductNotFound, "Product not found")
	ErrProductForbidden   = NewDomainError(KindForbidden, ErrCodeForbidden, "Product belongs to another dealer")
	ErrProductInactive    = NewDomainError(KindValidation, ErrCodeProductNotFound, "Product is not available")
	ErrInvalidQuantity    = NewDomainError(KindValidation, ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInsufficientStock  = NewDomainError(KindConflict, ErrCodeInsufficientStock, "Not enough stock for one or more products")
	ErrOrderNotFound      = NewDomainError(KindNotFound, ErrCodeOrderNotFound, "Order not found")
	ErrOrderForbidden     = NewDomainError(KindForbidden, ErrCodeForbidden, "Not authorized to access this order")
	ErrOrderNotPlaced     = NewDomainError(KindValidation, ErrCodeInvalidTransition, "Order has not been checked out yet")
	ErrBillNotFound       = NewDomainError(KindNotFound, ErrCodeBillNotFound, "Bill not found")
	ErrBillForbidden      = NewDomainError(KindForbidden, ErrCodeForbidden, "Not authorized to access this bill")
	ErrEmptyCart          = NewDomainError(KindValidation, ErrCodeEmptyCart, "Cart is empty")
	ErrCartItemNotFound   = NewDomainError(KindNotFound, ErrCodeCartItemNotFound, "Product is not in the cart")
	ErrStatusConflict     = NewDomainError(KindConflict, ErrCodeStatusConflict, "Order status was changed by another request")
	ErrBillNotAvailable   = NewDomainError(KindValidation, ErrCodeInvalidTransition, "Bills are only issued for confirmed orders")
	ErrEmailTaken         = NewDomainError(KindConflict, ErrCodeEmailTaken, "An account with this email already exists")
	ErrInvalidCredentials = NewDomainError(KindUnauthorized, ErrCodeUnauthorised, "Invalid email or password")
	ErrAccountNotFound    = NewDomainError(KindNotFound, ErrCodeAccountNotFound, "Account not found")
)
