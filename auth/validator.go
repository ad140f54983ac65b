package auth

import (
	"cool-chat/errors"
	"fmt"
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     = newValidator()
	loginPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("login", func(fl validator.FieldLevel) bool {
		return loginPattern.MatchString(fl.Field().String())
	})
	return v
}

type RegisterRequest struct {
	Login    string `json:"login" validate:"required,min=3,max=32,login"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Login    string `json:"login" validate:"required,max=32"`
	Password string `json:"password" validate:"required,max=72"`
}

func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if asValidationErrors(err, &verrs) {
			for _, fe := range verrs {
				if fe.StructField() == "Login" {
					return fmt.Errorf("%w: %s", errors.ErrInvalidLogin, fe.Tag())
				}
			}
		}
		return fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	if !isPasswordComplex(req.Password) {
		return errors.ErrInvalidPassword
	}
	return nil
}

func ValidateLogin(req LoginRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidCredentials, err)
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

func isPasswordComplex(s string) bool {
	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}
