package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/dmitrijs2005/imunetrack/internal/common"
)

const (
	codeValidation    = "validation"
	codeConflict      = "conflict"
	codeNotFound      = "not_found"
	codeUnauthorized  = "unauthorized"
	codeUnprocessable = "unprocessable"
	codeInternal      = "internal"

	internalDetail = "Erro interno do servidor"
)

func init() {
	// report json/form names instead of Go field names in binding errors
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, codeInternal

	switch {
	case errors.Is(err, common.ErrorValidation):
		status, code = http.StatusBadRequest, codeValidation
	case errors.Is(err, common.ErrorConflict):
		status, code = http.StatusBadRequest, codeConflict
	case errors.Is(err, common.ErrorNotFound):
		status, code = http.StatusNotFound, codeNotFound
	case errors.Is(err, common.ErrorUnauthorized):
		status, code = http.StatusUnauthorized, codeUnauthorized
	}

	if status == http.StatusInternalServerError {
		h.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(status, errorResponse{Detail: internalDetail, Code: code})
		return
	}

	c.AbortWithStatusJSON(status, errorResponse{Detail: common.Detail(err, defaultDetail(code)), Code: code})
}

func defaultDetail(code string) string {
	switch code {
	case codeConflict:
		return "Conflito com dados existentes"
	case codeNotFound:
		return "Recurso não encontrado"
	case codeUnauthorized:
		return "Não autorizado"
	}
	return "Dados inválidos"
}

// unprocessable answers 422 for request data rejected before reaching a
// service: malformed JSON, wrong types, failed binding rules.
func unprocessable(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponse{Detail: bindingDetail(err), Code: codeUnprocessable})
}

func bindingDetail(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("Campo '%s' é obrigatório", fe.Field())
		case "notblank":
			return fmt.Sprintf("Campo '%s' não pode ser vazio", fe.Field())
		case "email":
			return fmt.Sprintf("Campo '%s' deve ser um email válido", fe.Field())
		case "oneof":
			return fmt.Sprintf("Campo '%s' deve ser um de: %s", fe.Field(), fe.Param())
		case "min", "gte", "gt":
			return fmt.Sprintf("Campo '%s' abaixo do mínimo permitido (%s)", fe.Field(), fe.Param())
		case "max", "lte", "lt":
			return fmt.Sprintf("Campo '%s' acima do máximo permitido (%s)", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("Campo '%s' inválido", fe.Field())
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		return fmt.Sprintf("Campo '%s' com tipo inválido", te.Field)
	}
	var ce *common.Error
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return "Requisição inválida"
}
