package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/emasmetal/website/internal/ui/types"
)

// newTestClient starts an API stub that serves handler and returns a client pointed at it
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestListFilters(t *testing.T) {
	tests := []struct {
		name      string
		call      func(c *Client) error
		wantPath  string
		wantParam string
		wantValue string
		wantSet   bool
	}{
		{
			name: "references without industry",
			call: func(c *Client) error {
				_, err := c.ListReferences(context.Background(), "")
				return err
			},
			wantPath:  "/api/references",
			wantParam: "industry",
			wantSet:   false,
		},
		{
			name: "references with industry",
			call: func(c *Client) error {
				_, err := c.ListReferences(context.Background(), "Automotive & Aerospace")
				return err
			},
			wantPath:  "/api/references",
			wantParam: "industry",
			wantValue: "Automotive & Aerospace",
			wantSet:   true,
		},
		{
			name: "gallery without category",
			call: func(c *Client) error {
				_, err := c.ListGalleryItems(context.Background(), "")
				return err
			},
			wantPath:  "/api/gallery",
			wantParam: "category",
			wantSet:   false,
		},
		{
			name: "gallery with category",
			call: func(c *Client) error {
				_, err := c.ListGalleryItems(context.Background(), "Milling")
				return err
			},
			wantPath:  "/api/gallery",
			wantParam: "category",
			wantValue: "Milling",
			wantSet:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			var gotQuery map[string][]string

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.Query()
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte("[]"))
			})

			if err := tt.call(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if gotPath != tt.wantPath {
				t.Errorf("path = %q, want %q", gotPath, tt.wantPath)
			}

			values, ok := gotQuery[tt.wantParam]
			if ok != tt.wantSet {
				t.Fatalf("query param %q present = %v, want %v (query %v)", tt.wantParam, ok, tt.wantSet, gotQuery)
			}
			if tt.wantSet && (len(values) != 1 || values[0] != tt.wantValue) {
				t.Errorf("query param %q = %v, want [%q]", tt.wantParam, values, tt.wantValue)
			}
		})
	}
}

func TestGetReference(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/api/references/0b5b1f0e-6a3c-4d5e-8f1a-2b3c4d5e6f70" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"id": "0b5b1f0e-6a3c-4d5e-8f1a-2b3c4d5e6f70",
			"name": "Acme Tooling",
			"industry": "automotive",
			"displayOrder": 2,
			"createdAt": "2024-03-01T09:30:00"
		}`))
	})

	ref, err := c.GetReference(context.Background(), "0b5b1f0e-6a3c-4d5e-8f1a-2b3c4d5e6f70")
	if err != nil {
		t.Fatalf("GetReference() error = %v", err)
	}

	if ref.Name != "Acme Tooling" {
		t.Errorf("Name = %q, want %q", ref.Name, "Acme Tooling")
	}
	if ref.Industry == nil || *ref.Industry != "automotive" {
		t.Errorf("Industry = %v, want automotive", ref.Industry)
	}
	if ref.WebsiteURL != nil {
		t.Errorf("WebsiteURL = %v, want nil", *ref.WebsiteURL)
	}
	if ref.DisplayOrder == nil || *ref.DisplayOrder != 2 {
		t.Errorf("DisplayOrder = %v, want 2", ref.DisplayOrder)
	}
	want := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	if !ref.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", ref.CreatedAt, want)
	}
}

func TestGetGalleryItem(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/gallery/abc" {
			t.Errorf("path = %s, want /api/gallery/abc", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"abc","title":"5-axis part","imageUrl":"/uploads/a.jpg","category":"Milling","createdAt":"2024-03-01T09:30:00Z"}`))
	})

	item, err := c.GetGalleryItem(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetGalleryItem() error = %v", err)
	}
	if item.Category == nil || *item.Category != types.GalleryCategoryMilling {
		t.Errorf("Category = %v, want Milling", item.Category)
	}
	if item.ImageURL != "/uploads/a.jpg" {
		t.Errorf("ImageURL = %q", item.ImageURL)
	}
}

func TestStructuredErrorPassThrough(t *testing.T) {
	body := types.ApiError{
		Timestamp:  "2024-03-01T09:30:00.123",
		Status:     http.StatusBadRequest,
		ErrorLabel: "Validation Failed",
		Message:    "Invalid input data",
		Path:       "/api/contact",
		FieldErrors: map[string]string{
			"email": "must be a well-formed email address",
		},
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(body)
	})

	_, err := c.SubmitContact(context.Background(), types.CreateContactRequest{Name: "a", Email: "bad", Message: "hi"}, nil)

	var apiErr *types.ApiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T %v, want *types.ApiError", err, err)
	}
	if !reflect.DeepEqual(*apiErr, body) {
		t.Errorf("error = %+v, want %+v", *apiErr, body)
	}
	if !apiErr.HasFieldErrors() {
		t.Error("HasFieldErrors() = false, want true")
	}
}

func TestDefaultErrorBodyWithoutMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"timestamp":"2024-03-01T09:30:00.123+00:00","status":403,"error":"Forbidden","path":"/api/gallery"}`)
	})

	_, err := c.ListGalleryItems(context.Background(), "")

	var apiErr *types.ApiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T %v, want *types.ApiError", err, err)
	}
	want := types.ApiError{
		Timestamp:  "2024-03-01T09:30:00.123+00:00",
		Status:     http.StatusForbidden,
		ErrorLabel: "Forbidden",
		Path:       "/api/gallery",
	}
	if !reflect.DeepEqual(*apiErr, want) {
		t.Errorf("error = %+v, want %+v", *apiErr, want)
	}
}

func TestUnstructuredErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantStatus  int
	}{
		{
			name:       "empty body",
			status:     http.StatusServiceUnavailable,
			body:       "",
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:        "html body",
			status:      http.StatusBadGateway,
			contentType: "text/html",
			body:        "<html>bad gateway</html>",
			wantStatus:  http.StatusBadGateway,
		},
		{
			name:        "malformed json with status",
			status:      http.StatusNotFound,
			contentType: "application/json",
			body:        `{"status": 404, "message": `,
			wantStatus:  http.StatusNotFound,
		},
		{
			name:        "json that is not an error body",
			status:      http.StatusForbidden,
			contentType: "application/json",
			body:        `{"detail": "nope"}`,
			wantStatus:  http.StatusForbidden,
		},
		{
			name:        "status with wrong type",
			status:      http.StatusConflict,
			contentType: "application/json",
			body:        `{"status": "409", "message": "conflict"}`,
			wantStatus:  http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.ListGalleryItems(context.Background(), "")

			var apiErr *types.ApiError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %T %v, want *types.ApiError", err, err)
			}
			if apiErr.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", apiErr.Status, tt.wantStatus)
			}
			if apiErr.ErrorLabel != networkErrorLabel {
				t.Errorf("ErrorLabel = %q, want %q", apiErr.ErrorLabel, networkErrorLabel)
			}
			if apiErr.Message == "" {
				t.Error("Message is empty")
			}
			if apiErr.Path != "/api/gallery" {
				t.Errorf("Path = %q, want /api/gallery", apiErr.Path)
			}
			if _, err := time.Parse(time.RFC3339, apiErr.Timestamp); err != nil {
				t.Errorf("Timestamp %q is not RFC3339: %v", apiErr.Timestamp, err)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c := NewClient(baseURL)
	_, err := c.ListReferences(context.Background(), "")

	var apiErr *types.ApiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T %v, want *types.ApiError", err, err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", apiErr.Status)
	}
	if apiErr.Message == "" {
		t.Error("Message is empty")
	}
	if apiErr.Path != "/api/references" {
		t.Errorf("Path = %q, want /api/references", apiErr.Path)
	}
	if apiErr.FieldErrors != nil {
		t.Errorf("FieldErrors = %v, want nil", apiErr.FieldErrors)
	}
}

func TestMalformedSuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 12`))
	})

	_, err := c.GetReference(context.Background(), "12")

	apiErr := AsApiError(err)
	if apiErr == nil {
		t.Fatal("expected an error")
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", apiErr.Status)
	}
	if apiErr.Path != "/api/references/12" {
		t.Errorf("Path = %q, want /api/references/12", apiErr.Path)
	}
}

func TestAsApiError(t *testing.T) {
	if AsApiError(nil) != nil {
		t.Error("AsApiError(nil) should be nil")
	}

	plain := AsApiError(errors.New("boom"))
	if plain.Status != http.StatusInternalServerError || plain.Message != "boom" {
		t.Errorf("AsApiError(plain) = %+v", plain)
	}

	orig := &types.ApiError{Status: http.StatusNotFound, Message: "not found"}
	if got := AsApiError(orig); got != orig {
		t.Errorf("AsApiError(ApiError) = %p, want %p", got, orig)
	}
}

// contactPart is a multipart part captured by the contact API stub
type contactPart struct {
	formName    string
	fileName    string
	contentType string
	content     string
}

// readContactParts is called from the stub handler goroutine so it reports with Errorf rather than Fatalf
func readContactParts(t *testing.T, r *http.Request) []contactPart {
	t.Helper()

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		t.Errorf("parsing content type: %v", err)
		return nil
	}
	if mediaType != "multipart/form-data" {
		t.Errorf("content type = %q, want multipart/form-data", mediaType)
		return nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		t.Errorf("MultipartReader() error = %v", err)
		return nil
	}

	var parts []contactPart
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Errorf("NextPart() error = %v", err)
			return parts
		}
		content, err := io.ReadAll(p)
		if err != nil {
			t.Errorf("reading part: %v", err)
			return parts
		}
		parts = append(parts, contactPart{
			formName:    p.FormName(),
			fileName:    p.FileName(),
			contentType: p.Header.Get("Content-Type"),
			content:     string(content),
		})
	}
	return parts
}

func TestSubmitContact(t *testing.T) {
	company := "Acme"
	contactReq := types.CreateContactRequest{
		Name:    "Jane Doe",
		Company: &company,
		Email:   "jane@example.com",
		Message: "Please quote 200 turned shafts.",
	}
	wantJSON, err := json.Marshal(contactReq)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		attachment *types.Attachment
		wantParts  int
	}{
		{
			name:      "without attachment",
			wantParts: 1,
		},
		{
			name: "with attachment",
			attachment: &types.Attachment{
				Filename:    "drawing.pdf",
				ContentType: "application/pdf",
				Content:     strings.NewReader("%PDF-1.7 test"),
			},
			wantParts: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parts []contactPart

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/contact" {
					t.Errorf("request = %s %s, want POST /api/contact", r.Method, r.URL.Path)
				}
				parts = readContactParts(t, r)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"success":true,"message":"Thank you","referenceId":"42"}`))
			})

			resp, err := c.SubmitContact(context.Background(), contactReq, tt.attachment)
			if err != nil {
				t.Fatalf("SubmitContact() error = %v", err)
			}
			if !resp.Success || resp.ReferenceID == nil || *resp.ReferenceID != "42" {
				t.Errorf("response = %+v", resp)
			}

			if len(parts) != tt.wantParts {
				t.Fatalf("got %d parts, want %d", len(parts), tt.wantParts)
			}

			data := parts[0]
			if data.formName != "data" {
				t.Errorf("first part name = %q, want data", data.formName)
			}
			if data.contentType != "application/json" {
				t.Errorf("data part content type = %q, want application/json", data.contentType)
			}
			if data.content != string(wantJSON) {
				t.Errorf("data part = %s, want %s", data.content, wantJSON)
			}

			if tt.attachment == nil {
				return
			}
			file := parts[1]
			if file.formName != "attachment" {
				t.Errorf("second part name = %q, want attachment", file.formName)
			}
			if file.fileName != "drawing.pdf" {
				t.Errorf("file name = %q, want drawing.pdf", file.fileName)
			}
			if file.contentType != "application/pdf" {
				t.Errorf("file content type = %q, want application/pdf", file.contentType)
			}
			if file.content != "%PDF-1.7 test" {
				t.Errorf("file content = %q", file.content)
			}
		})
	}
}

func TestEncodeContactFormDefaults(t *testing.T) {
	body, contentType, err := encodeContactForm(types.CreateContactRequest{Name: "a"}, &types.Attachment{Content: strings.NewReader("x")})
	if err != nil {
		t.Fatalf("encodeContactForm() error = %v", err)
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatal(err)
	}
	mr := multipart.NewReader(body, params["boundary"])

	if _, err := mr.NextPart(); err != nil {
		t.Fatalf("data part: %v", err)
	}
	file, err := mr.NextPart()
	if err != nil {
		t.Fatalf("file part: %v", err)
	}
	if file.FileName() != "attachment" {
		t.Errorf("default file name = %q, want attachment", file.FileName())
	}
	if got := file.Header.Get("Content-Type"); got != "application/octet-stream" {
		t.Errorf("default content type = %q, want application/octet-stream", got)
	}
}

func TestImageURL(t *testing.T) {
	c := NewClient("http://api.example.com/")

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "empty", path: "", want: ""},
		{name: "absolute http", path: "http://x/y.png", want: "http://x/y.png"},
		{name: "absolute https", path: "https://cdn.example.com/a.png", want: "https://cdn.example.com/a.png"},
		{name: "protocol relative", path: "//cdn.example.com/a.png", want: "//cdn.example.com/a.png"},
		{name: "relative with slash", path: "/images/a.png", want: "http://api.example.com/images/a.png"},
		{name: "relative without slash", path: "uploads/b.jpg", want: "http://api.example.com/uploads/b.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.ImageURL(tt.path); got != tt.want {
				t.Errorf("ImageURL(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
