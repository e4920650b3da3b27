// Package dto содержит типизированные полезные нагрузки HTTP запросов.
package dto

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate проверяет структуру по ее validate-тегам.
func Validate(payload any) error {
	if err := validate.Struct(payload); err != nil {
		return fmt.Errorf("validating payload: %w", err)
	}
	return nil
}
