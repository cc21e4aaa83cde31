package router

import (
	"github.com/estore/backend/internal/domain/order"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators installs domain validations on gin's
// binding validator. Safe to call more than once.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("orderstatus", validOrderStatus)
}

func validOrderStatus(fl validator.FieldLevel) bool {
	return order.OrderStatus(fl.Field().String()).IsValid()
}
