package config

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

func ValidateAbsPath(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "" && path.IsAbs(s)
}

// ValidateLocalpath accepts slash separated paths that stay below the root
// they are joined to. Backslashes are rejected on every platform since disk
// keys are always slash separated.
func ValidateLocalpath(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return IsLocalPath(s)
}

func IsLocalPath(s string) bool {
	return s != "" && !strings.ContainsRune(s, '\\') && filepath.IsLocal(s)
}
