package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/catcurious/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type accountInput struct {
	UserName string `validate:"required"`
	Password string `validate:"required"`
}

type passwordChangeInput struct {
	UserName    string `validate:"required"`
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required"`
}

type catInput struct {
	Name   string  `validate:"required"`
	Breed  string  `validate:"required"`
	Age    int     `validate:"gte=0"`
	Weight float64 `validate:"gt=0"`
}

// validateInput checks v against its struct tags. Failures match
// common.ErrInvalidInput and name the offending fields, never their values.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", common.ErrInvalidInput, strings.Join(fields, ", "))
}
