package templates

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/emasmetal/website/internal/ui/types"
)

const siteName = "EMAS Metal"

// PageTitle appends the site name to a page title
func PageTitle(title string) string {
	if title == "" || title == siteName {
		return siteName
	}
	return title + " | " + siteName
}

// htmx swaps 4xx/5xx responses too: handlers return error alerts with the real status code
const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"[45]..","swap":true,"error":true}]}`

type link struct {
	href  string
	label string
}

var navLinks = []link{
	{"/", "Home"},
	{"/references", "References"},
	{"/gallery", "Gallery"},
	{"/contact", "Contact"},
}

var homeCards = []SectionHeaderProps{
	{Title: "References", Subtitle: "Companies we have worked with.", Align: AlignLeft},
	{Title: "Gallery", Subtitle: "Parts and machinery from our workshop.", Align: AlignLeft},
	{Title: "Contact", Subtitle: "Send us a drawing and get a quote.", Align: AlignLeft},
}

func homeCardHref(card SectionHeaderProps) string {
	return "/" + strings.ToLower(card.Title)
}

type contactField struct {
	name     string
	label    string
	kind     string
	required bool
}

var contactFields = []contactField{
	{"name", "Name", "text", true},
	{"company", "Company", "text", false},
	{"email", "Email", "email", true},
	{"phone", "Phone", "tel", false},
}

// classes joins non-empty class lists with a single space
func classes(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func sortedFields(fieldErrors map[string]string) []string {
	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func referencesSubtitle(industry string) string {
	if industry == "" {
		return "Companies that trust us with their parts."
	}
	return "References in " + types.IndustryLabel(industry) + "."
}

func referenceHref(id string) string {
	return "/references/" + url.PathEscape(id)
}

func industryFilterHref(industry string) string {
	return "/references?industry=" + url.QueryEscape(industry)
}

func galleryItemHref(id string) string {
	return "/gallery/" + url.PathEscape(id)
}

func categoryFilterHref(c types.GalleryCategory) string {
	return "/gallery?category=" + url.QueryEscape(string(c))
}

func categoryLabel(c *types.GalleryCategory) string {
	if c == nil {
		return ""
	}
	return c.Label()
}

// thumbnailPath prefers the thumbnail for list views
func thumbnailPath(item types.GalleryItem) string {
	if thumb := types.Deref(item.ThumbnailURL); thumb != "" {
		return thumb
	}
	return item.ImageURL
}

func uploadLimitLabel(maxUploadBytes int64) string {
	return fmt.Sprintf("(max %d MB)", maxUploadBytes>>20)
}

func contactSuccessMessage(resp types.ContactResponse) string {
	if resp.Message == "" {
		return "Thank you, your message has been sent."
	}
	return resp.Message
}
