package status

import "errors"

// Business-rule rejections. All of them are recoverable and map to a 4xx
// response in the API layer; anything else bubbling out of a service is an
// infrastructure failure.
var (
	ErrNotFound          = errors.New("resource: not found")
	ErrForbidden         = errors.New("auth: forbidden")
	ErrInvalidQuantity   = errors.New("order: quantity must be a positive integer")
	ErrInsufficientStock = errors.New("order: quantity is greater than available tickets")
	ErrSalesWindowClosed = errors.New("order: sales window closed")
	ErrInvalidStatus     = errors.New("order: invalid status")
	ErrAmountMismatch    = errors.New("payment: amount mismatch")
	ErrPaymentDeclined   = errors.New("payment: payment declined")
	ErrInvalidWindow     = errors.New("ticket batch: the sale start date must be earlier than the end date")
	ErrWindowAfterEvent  = errors.New("ticket batch: the sale end date must be earlier than the event date")
	ErrScheduleConflict  = errors.New("ticket batch: the sales period conflicts with another ticket batch")
	ErrBatchHasOrders    = errors.New("ticket batch: batch has active orders")
)

// IsBusiness reports whether err is one of the recoverable rejections above.
func IsBusiness(err error) bool {
	for _, target := range []error{
		ErrNotFound,
		ErrForbidden,
		ErrInvalidQuantity,
		ErrInsufficientStock,
		ErrSalesWindowClosed,
		ErrInvalidStatus,
		ErrAmountMismatch,
		ErrPaymentDeclined,
		ErrInvalidWindow,
		ErrWindowAfterEvent,
		ErrScheduleConflict,
		ErrBatchHasOrders,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
