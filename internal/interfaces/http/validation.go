package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Identity-api/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// los errores usan el nombre del campo en el JSON
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON parsea el cuerpo en out y lo valida. Si falla ya escribió la respuesta 400 y retorna false.
func bindJSON(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "datos inválidos",
				Fields:  fieldMessages(verrs),
			})
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return true, nil
}

func fieldMessages(errs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		name := fe.Field()
		switch fe.Tag() {
		case "required":
			fields[name] = fmt.Sprintf("%s es obligatorio", name)
		case "email":
			fields[name] = fmt.Sprintf("%s no es un correo válido", name)
		case "uuid":
			fields[name] = fmt.Sprintf("%s debe ser un UUID", name)
		case "min":
			fields[name] = fmt.Sprintf("%s debe tener al menos %s caracteres", name, fe.Param())
		case "max":
			fields[name] = fmt.Sprintf("%s no debe exceder %s caracteres", name, fe.Param())
		case "oneof":
			fields[name] = fmt.Sprintf("%s debe ser uno de: %s", name, fe.Param())
		default:
			fields[name] = fmt.Sprintf("%s no cumple la regla '%s'", name, fe.Tag())
		}
	}
	return fields
}
