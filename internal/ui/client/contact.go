package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/emasmetal/website/internal/ui/types"
)

const (
	contactPath = "/api/contact"

	contactDataPart       = "data"
	contactAttachmentPart = "attachment"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// SubmitContact sends a contact request to the API as a multipart form.
//
// The request is serialized as JSON in a part named "data". When attachment is not nil its content is
// added as a second, file part named "attachment".
func (c *Client) SubmitContact(ctx context.Context, contactReq types.CreateContactRequest, attachment *types.Attachment) (*types.ContactResponse, error) {
	body, contentType, err := encodeContactForm(contactReq, attachment)
	if err != nil {
		return nil, newInternalError(err, "encoding contact form", contactPath)
	}

	req, err := c.newRequest(ctx, http.MethodPost, contactPath, nil, body)
	if err != nil {
		return nil, newInternalError(err, "creating contact request", contactPath)
	}
	req.Header.Set("Content-Type", contentType)

	var contactResp types.ContactResponse
	if err := c.do(req, contactPath, &contactResp); err != nil {
		return nil, err
	}
	return &contactResp, nil
}

// encodeContactForm writes the multipart body and returns it with its content type (including the boundary)
func encodeContactForm(contactReq types.CreateContactRequest, attachment *types.Attachment) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	jsonData, err := json.Marshal(contactReq)
	if err != nil {
		return nil, "", fmt.Errorf("marshaling contact request: %w", err)
	}

	dataHeader := make(textproto.MIMEHeader)
	dataHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, contactDataPart))
	dataHeader.Set("Content-Type", "application/json")

	dataPart, err := mw.CreatePart(dataHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := dataPart.Write(jsonData); err != nil {
		return nil, "", err
	}

	if attachment != nil {
		filename := attachment.Filename
		if filename == "" {
			filename = contactAttachmentPart
		}
		contentType := attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		fileHeader := make(textproto.MIMEHeader)
		fileHeader.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, contactAttachmentPart, quoteEscaper.Replace(filename)))
		fileHeader.Set("Content-Type", contentType)

		filePart, err := mw.CreatePart(fileHeader)
		if err != nil {
			return nil, "", err
		}
		if attachment.Content != nil {
			if _, err := io.Copy(filePart, attachment.Content); err != nil {
				return nil, "", fmt.Errorf("reading attachment: %w", err)
			}
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
