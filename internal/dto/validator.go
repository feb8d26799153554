package dto

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var userNamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{2,15}$`)

const passwordSpecials = "#?!@%^&+-"

// RegisterValidators 向 gin 的 validator 注册自定义规则：username、password
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("username", validUserName); err != nil {
		return err
	}
	return v.RegisterValidation("password", validPassword)
}

func validUserName(fl validator.FieldLevel) bool {
	return ValidUserName(fl.Field().String())
}

func validPassword(fl validator.FieldLevel) bool {
	return ValidPassword(fl.Field().String())
}

// ValidUserName 英文字母与数字，2~15 位
func ValidUserName(s string) bool {
	return userNamePattern.MatchString(s)
}

// ValidPassword 6~15 位，至少包含字母、数字和一个特殊字符
func ValidPassword(s string) bool {
	if n := len([]rune(s)); n < 6 || n > 15 {
		return false
	}
	var letter, digit, special bool
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return letter && digit && special
}
