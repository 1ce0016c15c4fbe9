package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/emasmetal/website/internal/logger"
	"github.com/emasmetal/website/internal/ui/client"
	"github.com/emasmetal/website/internal/ui/templates"
	"github.com/emasmetal/website/internal/ui/types"
)

// multipart data kept in memory before spilling to temporary files
const contactFormMemory = 1 << 20

// newContactValidator returns a validator that reports fields by their json names
// (the same names the API uses in ApiError.FieldErrors)
func newContactValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrorMessage converts a validation failure to the message shown next to the field
func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}

// contactFieldErrors maps validation failures to json field name -> message.
// ok is false when err is not a validation failure.
func contactFieldErrors(err error) (fieldErrors map[string]string, ok bool) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, false
	}

	fieldErrors = make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fieldErrors[fe.Field()] = fieldErrorMessage(fe)
	}
	return fieldErrors, true
}

func (h *HandlerService) ContactPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, templates.ContactPage(h.Environment, h.MaxUploadBytes), "contact page")
}

// SubmitContact handles the contact form post (multipart/form-data).
//
// The form is validated before anything is sent to the API; validation failures and API errors are returned as a
// ContactFailure fragment with the field errors, success as a ContactSuccess fragment.
func (h *HandlerService) SubmitContact(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	if err := r.ParseMultipartForm(contactFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.render(w, r, http.StatusRequestEntityTooLarge,
				templates.ContactFailure(fmt.Sprintf("The attachment is too large (max %d MB).", h.MaxUploadBytes>>20), nil), "contact failure")
			return
		}
		reqLogger.Warn("Failed to parse contact form", slog.String("error", err.Error()))
		h.render(w, r, http.StatusBadRequest, templates.ContactFailure("The form could not be read. Please try again.", nil), "contact failure")
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	contactReq := contactRequestFromForm(r)

	if err := h.validate.Struct(contactReq); err != nil {
		fieldErrors, ok := contactFieldErrors(err)
		if !ok {
			reqLogger.Error("Contact form validation failed", slog.String("error", err.Error()))
			h.render(w, r, http.StatusInternalServerError, templates.ContactFailure("An error occurred. Please try again.", nil), "contact failure")
			return
		}

		h.render(w, r, http.StatusUnprocessableEntity,
			templates.ContactFailure("Please correct the highlighted fields.", fieldErrors), "contact failure")
		return
	}

	attachment, closeAttachment, err := attachmentFromForm(r)
	if err != nil {
		reqLogger.Warn("Failed to read contact attachment", slog.String("error", err.Error()))
		h.render(w, r, http.StatusBadRequest, templates.ContactFailure("The attachment could not be read. Please try again.", nil), "contact failure")
		return
	}
	defer closeAttachment()

	resp, err := h.ApiClient.SubmitContact(r.Context(), contactReq, attachment)
	if err != nil {
		apiErr := client.AsApiError(err)
		reqLogger.Error("Contact submission failed",
			slog.Int("api_status", apiErr.Status),
			slog.String("error", apiErr.Message),
		)
		logger.ContextWithLogAttrs(r.Context(), slog.Int("api_status", apiErr.Status))

		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		h.render(w, r, status, templates.ContactFailure(apiErr.DisplayMessage(), apiErr.FieldErrors), "contact failure")
		return
	}

	if resp.ReferenceID != nil {
		logger.ContextWithLogAttrs(r.Context(), slog.String("contact_reference_id", *resp.ReferenceID))
	}

	h.render(w, r, http.StatusOK, templates.ContactSuccess(*resp), "contact success")
}

// contactRequestFromForm builds the API request from the posted form, optional fields that are blank are left out
func contactRequestFromForm(r *http.Request) types.CreateContactRequest {
	optional := func(name string) *string {
		v := strings.TrimSpace(r.FormValue(name))
		if v == "" {
			return nil
		}
		return &v
	}

	return types.CreateContactRequest{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Company: optional("company"),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Phone:   optional("phone"),
		Message: strings.TrimSpace(r.FormValue("message")),
	}
}

// attachmentFromForm returns the uploaded file, or nil when the visitor did not choose one.
// The returned func closes the file and is always safe to call.
func attachmentFromForm(r *http.Request) (*types.Attachment, func(), error) {
	noop := func() {}

	// url-encoded posts cannot carry a file
	if r.MultipartForm == nil {
		return nil, noop, nil
	}

	file, header, err := r.FormFile("attachment")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}

	// browsers send an empty part when the file input is left blank
	if header.Filename == "" && header.Size == 0 {
		_ = file.Close()
		return nil, noop, nil
	}

	return &types.Attachment{
		Filename:    header.Filename,
		ContentType: attachmentContentType(header),
		Content:     file,
	}, func() { _ = file.Close() }, nil
}

func attachmentContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
