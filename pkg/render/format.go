package render

import (
	"strings"

	errs "github.com/matzehuels/topodraw/pkg/errors"
)

// Format is an output format.
type Format string

// Supported output formats.
const (
	FormatPNG     Format = "png"
	FormatJPG     Format = "jpg"
	FormatSVG     Format = "svg"
	FormatPDF     Format = "pdf"
	FormatDOT     Format = "dot"
	FormatMermaid Format = "mermaid"
)

var extensions = map[Format]string{
	FormatPNG:     ".png",
	FormatJPG:     ".jpg",
	FormatSVG:     ".svg",
	FormatPDF:     ".pdf",
	FormatDOT:     ".dot",
	FormatMermaid: ".mmd",
}

var aliases = map[string]Format{
	"jpeg": FormatJPG,
	"gv":   FormatDOT,
	"mmd":  FormatMermaid,
}

// Formats returns the supported formats in a fixed order.
func Formats() []Format {
	return []Format{FormatPNG, FormatJPG, FormatSVG, FormatPDF, FormatDOT, FormatMermaid}
}

// ParseFormat normalises s (case, surrounding space, aliases such as
// "jpeg") and rejects anything unsupported with INVALID_FORMAT.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if f, ok := aliases[s]; ok {
		return f, nil
	}
	f := Format(s)
	if _, ok := extensions[f]; !ok {
		return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", s, formatList())
	}
	return f, nil
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return extensions[f] }

// Binary reports whether f is produced by Graphviz and therefore cached.
func (f Format) Binary() bool {
	switch f {
	case FormatPNG, FormatJPG, FormatSVG, FormatPDF:
		return true
	}
	return false
}

func formatList() string {
	names := make([]string, 0, len(extensions))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
