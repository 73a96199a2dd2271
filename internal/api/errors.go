package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rehabdesk/rehabdesk-api/internal/api/shared"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	"github.com/rehabdesk/rehabdesk-api/internal/knowledge"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

// errorMapping pairs a sentinel with its status. An empty message exposes
// the text of the failing cause, which is only done for errors whose text is
// written by this service.
type errorMapping struct {
	target  error
	status  int
	message string
}

// errorMappings is checked in order; specific sentinels precede the
// sentinels they wrap.
var errorMappings = []errorMapping{
	{errUploadTooLarge, http.StatusRequestEntityTooLarge, ""},

	{store.ErrPatientNotFound, http.StatusNotFound, "Patient not found"},
	{store.ErrNoteNotFound, http.StatusNotFound, "Progress note not found"},
	{store.ErrReminderNotFound, http.StatusNotFound, "Reminder not found"},
	{store.ErrTemplateNotFound, http.StatusNotFound, "Template not found"},
	{store.ErrRehabPlanNotFound, http.StatusNotFound, "Rehab plan not found"},
	{store.ErrDocumentNotFound, http.StatusNotFound, "Knowledge document not found"},
	{store.ErrNotFound, http.StatusNotFound, "Resource not found"},

	{store.ErrHospitalNumberExists, http.StatusConflict, "Hospital number already exists"},
	{store.ErrDuplicate, http.StatusConflict, "Resource already exists"},

	{domain.ErrSystemTemplate, http.StatusForbidden, "System templates cannot be modified"},
	{domain.ErrImmutable, http.StatusForbidden, "Resource cannot be modified"},

	{service.ErrKnowledgeDisabled, http.StatusServiceUnavailable, "Knowledge base is not configured"},
	{generation.ErrInvalidConfig, http.StatusServiceUnavailable, "AI features are not configured"},
	{generation.ErrTransientFailure, http.StatusServiceUnavailable, "The language model is temporarily unavailable"},
	{generation.ErrContentBlocked, http.StatusUnprocessableEntity, "The language model declined to process this content"},
	{generation.ErrInvalidResponse, http.StatusBadGateway, "The language model returned an unusable response"},
	{generation.ErrGenerationFailed, http.StatusBadGateway, "Generation failed"},
	{generation.ErrEmptyInput, http.StatusBadRequest, "Input text cannot be empty"},

	{knowledge.ErrEmptyQuery, http.StatusBadRequest, ""},
	{knowledge.ErrUnsupportedType, http.StatusBadRequest, ""},
	{knowledge.ErrNotUTF8, http.StatusBadRequest, ""},
	{knowledge.ErrNoText, http.StatusBadRequest, ""},

	{schedule.ErrInvalidWindow, http.StatusBadRequest, ""},
	{schedule.ErrInvalidMode, http.StatusBadRequest, ""},
	{schedule.ErrInvalidCadence, http.StatusBadRequest, ""},
	{schedule.ErrInvalidEventType, http.StatusBadRequest, ""},
	{schedule.ErrInvalidPriority, http.StatusBadRequest, ""},

	{domain.ErrValidation, http.StatusBadRequest, ""},
	{domain.ErrInvalidFormat, http.StatusBadRequest, ""},
	{domain.ErrInvalidID, http.StatusBadRequest, ""},
	{domain.ErrInvalidDate, http.StatusBadRequest, ""},
	{domain.ErrEmptyContent, http.StatusBadRequest, ""},
	{domain.ErrEmptyHospitalNumber, http.StatusBadRequest, ""},
	{domain.ErrEmptyAdmissionDate, http.StatusBadRequest, ""},
	{domain.ErrDischargeBeforeAdmission, http.StatusBadRequest, ""},
	{domain.ErrInvalidAge, http.StatusBadRequest, ""},
	{domain.ErrInvalidGender, http.StatusBadRequest, ""},
	{domain.ErrNoteBeforeAdmission, http.StatusBadRequest, ""},
	{domain.ErrEmptyNoteRecordType, http.StatusBadRequest, ""},
	{domain.ErrEmptyTrainingItem, http.StatusBadRequest, ""},
	{domain.ErrInvalidProgressScore, http.StatusBadRequest, ""},
	{domain.ErrEmptyProgressContent, http.StatusBadRequest, ""},
	{domain.ErrEmptyTemplateCategory, http.StatusBadRequest, ""},
	{domain.ErrEmptyTemplateName, http.StatusBadRequest, ""},
	{domain.ErrEmptyTemplateContent, http.StatusBadRequest, ""},
	{domain.ErrInvalidReminderPriority, http.StatusBadRequest, ""},
	{domain.ErrEmptyDocumentFilename, http.StatusBadRequest, ""},
	{domain.ErrEmptyDocumentText, http.StatusBadRequest, ""},
	{store.ErrInvalidEntity, http.StatusBadRequest, "Invalid entity data"},
}

func lookupError(err error) (errorMapping, bool) {
	if err == nil {
		return errorMapping{}, false
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m, true
		}
	}
	return errorMapping{}, false
}

// MapErrorToStatusCode maps internal errors to HTTP status codes. Unknown
// errors are 500.
func MapErrorToStatusCode(err error) int {
	if isInvalidInput(err) {
		return http.StatusBadRequest
	}
	if m, ok := lookupError(err); ok {
		return m.status
	}
	return http.StatusInternalServerError
}

// GetSafeErrorMessage returns a client-facing message for err that never
// carries driver, provider or SQL details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}
	var se *service.ServiceError
	if isInvalidInput(err) && errors.As(err, &se) {
		return se.Message
	}
	m, ok := lookupError(err)
	if !ok {
		return "An unexpected error occurred"
	}
	if m.message != "" {
		return m.message
	}
	return causeMessage(err)
}

func isInvalidInput(err error) bool {
	return errors.Is(err, service.ErrInvalidInput)
}

// causeMessage strips the service operation prefix so the client sees the
// domain's own wording.
func causeMessage(err error) string {
	var se *service.ServiceError
	if errors.As(err, &se) && se.Err != nil {
		return se.Err.Error()
	}
	return err.Error()
}

// HandleAPIError writes the mapped status and safe message for err. A
// non-empty defaultMsg replaces the message of unmapped (500) errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError renders validator errors as "Invalid <field>:
// <reason>" using the JSON field names. Other errors become a generic message.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag())))
	}
	return strings.Join(parts, "; ")
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	case "datetime":
		return "must be a YYYY-MM-DD date"
	case "uuid":
		return "must be a UUID"
	case "dive":
		return "invalid item"
	default:
		return "validation failed"
	}
}
