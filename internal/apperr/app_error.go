package apperr

import "github.com/tuanvumaihuynh/stockledger/pkg/zerror"

const (
	ValidationErrorCode      = "VALIDATION_FAILED"
	InvalidArgumentCode      = "INVALID_ARGUMENT"
	UnauthenticatedCode      = "UNAUTHENTICATED"
	ProductNotFoundCode      = "PRODUCT_NOT_FOUND"
	ProductAlreadyExistsCode = "PRODUCT_ALREADY_EXISTS"
	InsufficientStockCode    = "INSUFFICIENT_STOCK"
	SaleNotFoundCode         = "SALE_NOT_FOUND"
	SupplierNotFoundCode     = "SUPPLIER_NOT_FOUND"
	OrderNotFoundCode        = "ORDER_NOT_FOUND"
	NotificationNotFoundCode = "NOTIFICATION_NOT_FOUND"
	UserNotFoundCode         = "USER_NOT_FOUND"
	StoreNotFoundCode        = "STORE_NOT_FOUND"
	UserAlreadyExistsCode    = "USER_ALREADY_EXISTS"
)

var (
	ValidationErr      = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	InvalidArgumentErr = zerror.NewBadRequest(InvalidArgumentCode, "invalid argument")
	UnauthenticatedErr = zerror.NewUnauthorized(UnauthenticatedCode, "missing or unknown user")

	ProductNotFoundErr      = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	ProductAlreadyExistsErr = zerror.NewConflict(ProductAlreadyExistsCode, "product already exists")
	InsufficientStockErr    = zerror.NewUnprocessableEntity(InsufficientStockCode, "insufficient stock")

	SaleNotFoundErr         = zerror.NewNotFound(SaleNotFoundCode, "sale not found")
	SupplierNotFoundErr     = zerror.NewNotFound(SupplierNotFoundCode, "supplier not found")
	OrderNotFoundErr        = zerror.NewNotFound(OrderNotFoundCode, "order not found")
	NotificationNotFoundErr = zerror.NewNotFound(NotificationNotFoundCode, "notification not found")
	UserNotFoundErr         = zerror.NewNotFound(UserNotFoundCode, "user not found")
	StoreNotFoundErr        = zerror.NewNotFound(StoreNotFoundCode, "store not found")
	UserAlreadyExistsErr    = zerror.NewConflict(UserAlreadyExistsCode, "user already exists")
)
