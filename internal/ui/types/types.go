package types

import (
	"fmt"
	"io"
)

// =============================================================================
// REFERENCE TYPES
// =============================================================================

// Reference is a company the business has worked with, shown as a portfolio entry
type Reference struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	WebsiteURL   *string   `json:"websiteUrl,omitempty"`
	LogoURL      *string   `json:"logoUrl,omitempty"`
	Industry     *string   `json:"industry,omitempty"`
	Description  *string   `json:"description,omitempty"`
	DisplayOrder *int      `json:"displayOrder,omitempty"`
	CreatedAt    Timestamp `json:"createdAt"`
}

// =============================================================================
// GALLERY TYPES
// =============================================================================

// GalleryCategory is the manufacturing process a gallery image belongs to.
// Only the values listed in AllGalleryCategories are valid.
type GalleryCategory string

const (
	GalleryCategoryMilling GalleryCategory = "Milling"
	GalleryCategoryTurning GalleryCategory = "Turning"
	GalleryCategoryParts   GalleryCategory = "Parts"
	GalleryCategoryFactory GalleryCategory = "Factory"
)

// AllGalleryCategories lists the categories in display order
var AllGalleryCategories = []GalleryCategory{
	GalleryCategoryMilling,
	GalleryCategoryTurning,
	GalleryCategoryParts,
	GalleryCategoryFactory,
}

// ParseGalleryCategory returns the category matching s exactly
func ParseGalleryCategory(s string) (GalleryCategory, error) {
	for _, c := range AllGalleryCategories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown gallery category %q", s)
}

// Label returns the text shown for the category in the gallery filter
func (c GalleryCategory) Label() string {
	switch c {
	case GalleryCategoryMilling:
		return "CNC Milling"
	case GalleryCategoryTurning:
		return "CNC Turning"
	case GalleryCategoryParts:
		return "Finished Parts"
	case GalleryCategoryFactory:
		return "Our Factory"
	default:
		return string(c)
	}
}

// GalleryItem is a displayable image entry
type GalleryItem struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	ImageURL     string           `json:"imageUrl"`
	ThumbnailURL *string          `json:"thumbnailUrl,omitempty"`
	Category     *GalleryCategory `json:"category,omitempty"`
	Description  *string          `json:"description,omitempty"`
	DisplayOrder *int             `json:"displayOrder,omitempty"`
	CreatedAt    Timestamp        `json:"createdAt"`
}

// =============================================================================
// CONTACT TYPES
// =============================================================================

// ContactMessage is a visitor inquiry as stored by the API
type ContactMessage struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Company            *string   `json:"company,omitempty"`
	Email              string    `json:"email"`
	Phone              *string   `json:"phone,omitempty"`
	Message            string    `json:"message"`
	AttachmentURL      *string   `json:"attachmentUrl,omitempty"`
	AttachmentFilename *string   `json:"attachmentFilename,omitempty"`
	IsRead             bool      `json:"isRead"`
	CreatedAt          Timestamp `json:"createdAt"`
}

// CreateContactRequest is the part of a ContactMessage supplied by the visitor.
// The validate tags are checked by the contact form handler before the request is sent.
type CreateContactRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Company *string `json:"company,omitempty" validate:"omitempty,max=100"`
	Email   string  `json:"email" validate:"required,email,max=100"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Message string  `json:"message" validate:"required,max=5000"`
}

// ContactResponse is returned by the API when a contact request is accepted
type ContactResponse struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	ReferenceID *string `json:"referenceId,omitempty"`
}

// Attachment is an optional file sent with a contact request
type Attachment struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// ApiError is the single error shape returned by every client call.
// It is either the error body sent by the API or one synthesized by the client.
type ApiError struct {
	Timestamp   string            `json:"timestamp"`
	Status      int               `json:"status"`
	ErrorLabel  string            `json:"error"`
	Message     string            `json:"message"`
	Path        string            `json:"path"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

func (e *ApiError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d on %s: %s", e.Status, e.Path, e.Message)
}

// DisplayMessage returns the text shown to visitors: the message, else the error label, else a generic text
func (e *ApiError) DisplayMessage() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.ErrorLabel != "":
		return e.ErrorLabel
	default:
		return "An unexpected error occurred"
	}
}

// HasFieldErrors reports whether the API rejected individual form fields
func (e *ApiError) HasFieldErrors() bool {
	return len(e.FieldErrors) > 0
}
