package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// invalidInput es un error de validación del body con detalle por campo.
type invalidInput struct {
	fields map[string]string
}

func (e *invalidInput) Error() string { return domain.KindValidation.Message() }

func (e *invalidInput) Unwrap() error { return domain.ErrValidation }

// writeError traduce err al sobre {code, message, request_id} con el status de su Kind.
// Los errores no clasificados salen como server_error con el mensaje genérico.
func writeError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	resp := dto.ErrorResponse{
		Code:      kind.Code(),
		Message:   kind.Message(),
		RequestID: requestID(c),
	}
	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		resp.Message = de.Message
	}
	var in *invalidInput
	if errors.As(err, &in) {
		resp.Fields = in.fields
	}
	return c.Status(kind.Status()).JSON(resp)
}

// ErrorHandler es el manejador global de fiber: errores de fiber (ruta inexistente,
// método no permitido, body demasiado grande) conservan su status; el resto pasa por writeError.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := domain.KindServer.Code()
			switch {
			case fe.Code == fiber.StatusNotFound:
				code = domain.KindNotFound.Code()
			case fe.Code >= 400 && fe.Code < 500:
				code = domain.KindValidation.Code()
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message, RequestID: requestID(c)})
		}
		if domain.KindOf(err) == domain.KindServer {
			log.Error().Err(err).Str("request_id", requestID(c)).Str("path", c.Path()).Msg("error no controlado")
		}
		return writeError(c, err)
	}
}

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

var validate = newValidator()

// newValidator reporta los campos con su nombre JSON.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodifica el JSON del body y aplica las etiquetas validate del DTO.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewValidation("cuerpo inválido")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return &invalidInput{fields: fields}
		}
		return domain.NewValidation("cuerpo inválido")
	}
	return nil
}
