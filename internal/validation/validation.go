// Package validation holds the field rules shared by the services and the
// HTTP boundary. Every rule is a pure function that returns nil or a
// *common.Error of kind common.ErrorValidation.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

const (
	MaxNameLength     = 100
	MaxEmailLength    = 255
	MinPasswordLength = 6
	// MaxPasswordLength matches the bcrypt input limit.
	MaxPasswordLength = 72

	MinDoses = 1
	MaxDoses = 10

	MaxBatchLotLength       = 50
	MaxSiteLength           = 200
	MaxAdministeredByLength = 200
	MaxNotesLength          = 500
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail trims and lowercases an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func UserName(name string) *common.Error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return common.Validation("Nome é obrigatório")
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return common.Validation(fmt.Sprintf("Nome deve ter no máximo %d caracteres", MaxNameLength))
	}
	return nil
}

func Email(email string) *common.Error {
	email = strings.TrimSpace(email)
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return common.Validation(fmt.Sprintf("Email deve ter no máximo %d caracteres", MaxEmailLength))
	}
	if !emailPattern.MatchString(email) {
		return common.Validation("Email inválido")
	}
	return nil
}

func Password(password string) *common.Error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return common.Validation(fmt.Sprintf("Senha deve ter no mínimo %d caracteres", MinPasswordLength))
	}
	return nil
}

// PasswordPolicy is the stricter rule applied to passwords arriving over the
// API: bounded length plus at least one letter and one digit.
func PasswordPolicy(password string) *common.Error {
	if err := Password(password); err != nil {
		return err
	}
	if utf8.RuneCountInString(password) > MaxPasswordLength {
		return common.Validation(fmt.Sprintf("Senha deve ter no máximo %d caracteres", MaxPasswordLength))
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLetter(r):
			letter = true
		}
	}
	if !digit {
		return common.Validation("Senha deve conter ao menos um número")
	}
	if !letter {
		return common.Validation("Senha deve conter ao menos uma letra")
	}
	return nil
}

func VaccineName(name string) *common.Error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > MaxNameLength {
		return common.Validation(fmt.Sprintf("Nome da vacina é obrigatório e deve ter no máximo %d caracteres", MaxNameLength))
	}
	return nil
}

func VaccineDoses(doses int) *common.Error {
	if doses < MinDoses || doses > MaxDoses {
		return common.Validation(fmt.Sprintf("Número de doses deve ser entre %d e %d", MinDoses, MaxDoses))
	}
	return nil
}

// DoseNumber checks n against the dose count required by the vaccine.
func DoseNumber(n, required int) *common.Error {
	if n < 1 || n > required {
		return common.Validation(fmt.Sprintf("Número da dose deve estar entre 1 e %d", required))
	}
	return nil
}

func DoseStatus(s models.DoseStatus) *common.Error {
	if !s.Valid() {
		return common.Validation(fmt.Sprintf("Status inválido: %q", string(s)))
	}
	return nil
}

// MaxLength rejects an optional text field longer than n characters.
func MaxLength(field string, value *string, n int) *common.Error {
	if value == nil {
		return nil
	}
	if utf8.RuneCountInString(*value) > n {
		return common.Validation(fmt.Sprintf("%s deve ter no máximo %d caracteres", field, n))
	}
	return nil
}

// First returns the first non-nil rule failure.
func First(errs ...*common.Error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
