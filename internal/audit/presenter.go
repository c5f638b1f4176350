package audit

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	// AutoPresenterStyle selects a terminal style from the detected background.
	AutoPresenterStyle           = "auto"
	defaultPresenterWrapConstant = 100
	presenterBlockTemplate       = "\n%s\n\n"
	presenterCreateErrorTemplate = "unable to create markdown renderer: %w"
)

// PlainPresenter prints results verbatim surrounded by blank lines.
type PlainPresenter struct{}

// Present writes the text unchanged.
func (PlainPresenter) Present(writer io.Writer, text string) error {
	_, writeError := fmt.Fprintf(writer, presenterBlockTemplate, text)
	return writeError
}

// MarkdownPresenter renders results as styled terminal markdown.
type MarkdownPresenter struct {
	renderer *glamour.TermRenderer
}

// NewMarkdownPresenter constructs a MarkdownPresenter using the named glamour style.
func NewMarkdownPresenter(style string, wordWrap int) (*MarkdownPresenter, error) {
	if wordWrap <= 0 {
		wordWrap = defaultPresenterWrapConstant
	}

	styleOption := glamour.WithStandardStyle(style)
	trimmedStyle := strings.TrimSpace(style)
	if len(trimmedStyle) == 0 || strings.EqualFold(trimmedStyle, AutoPresenterStyle) {
		styleOption = glamour.WithAutoStyle()
	}

	renderer, rendererError := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(wordWrap))
	if rendererError != nil {
		return nil, fmt.Errorf(presenterCreateErrorTemplate, rendererError)
	}
	return &MarkdownPresenter{renderer: renderer}, nil
}

// Present renders text as markdown. Text that cannot be rendered is written verbatim.
func (presenter *MarkdownPresenter) Present(writer io.Writer, text string) error {
	rendered, renderError := presenter.renderer.Render(text)
	if renderError != nil {
		return PlainPresenter{}.Present(writer, text)
	}
	_, writeError := io.WriteString(writer, rendered)
	return writeError
}
