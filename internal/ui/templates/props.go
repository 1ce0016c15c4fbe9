// Package templates contains the templ components used to render the website.
//
// The *_templ.go files are generated from the .templ sources, run go generate after editing them.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.1001 generate

// ImageResolver maps an image path returned by the API to a browser URL (see client.ImageURL)
type ImageResolver func(path string) string

// SpinnerSize selects one of the three spinner sizes. The zero value is SpinnerMedium.
type SpinnerSize string

const (
	SpinnerSmall  SpinnerSize = "sm"
	SpinnerMedium SpinnerSize = "md"
	SpinnerLarge  SpinnerSize = "lg"
)

func (s SpinnerSize) iconClass() string {
	switch s {
	case SpinnerSmall:
		return "w-5 h-5"
	case SpinnerLarge:
		return "w-12 h-12"
	default:
		return "w-8 h-8"
	}
}

// SpinnerProps configures Spinner
type SpinnerProps struct {
	Size  SpinnerSize
	Text  string // optional text shown under the icon
	Class string // extra classes for the container
	ID    string // optional element id (used as an htmx indicator target)
}

// DefaultLoadingText is shown by LoadingOverlay when no text is given
const DefaultLoadingText = "Loading..."

func overlayText(text string) string {
	if text == "" {
		return DefaultLoadingText
	}
	return text
}

// Align selects the section header alignment. The zero value is AlignCenter.
type Align string

const (
	AlignCenter Align = "center"
	AlignLeft   Align = "left"
)

func (a Align) textClass() string {
	if a == AlignLeft {
		return "text-left"
	}
	return "text-center"
}

func (a Align) subtitleClass() string {
	if a == AlignLeft {
		return "max-w-2xl"
	}
	return "max-w-2xl mx-auto"
}

// SectionHeaderProps configures SectionHeader
type SectionHeaderProps struct {
	Title    string
	Subtitle string
	Align    Align
	Class    string
}
