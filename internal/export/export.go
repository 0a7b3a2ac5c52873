// Package export serialises extracted networks into SBML, GraphML, GML and
// DOT documents.
package export

import (
	"bytes"
	"io"
	"strings"

	"github.com/gemtract/core/internal/apperr"
	"github.com/gemtract/core/internal/models"
)

type Format string

const (
	FormatSBML    Format = "sbml"
	FormatGraphML Format = "graphml"
	FormatGML     Format = "gml"
	FormatDOT     Format = "dot"
)

type encodeFunc func(buf *bytes.Buffer, network *models.Network) error

var encoders = map[Format]encodeFunc{
	FormatSBML:    encodeSBML,
	FormatGraphML: encodeGraphML,
	FormatGML:     encodeGML,
	FormatDOT:     encodeDOT,
}

var mimeTypes = map[Format]string{
	FormatSBML:    "application/sbml+xml",
	FormatGraphML: "application/graphml+xml",
	FormatGML:     "text/plain",
	FormatDOT:     "text/plain",
}

// Formats lists the supported formats in a stable order.
func Formats() []Format {
	return []Format{FormatSBML, FormatGraphML, FormatGML, FormatDOT}
}

// ParseFormat resolves a format tag, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := encoders[f]; !ok {
		return "", apperr.NewUnsupportedFormatError(s)
	}
	return f, nil
}

func (f Format) MimeType() string {
	return mimeTypes[f]
}

func (f Format) FileExtension() string {
	return "." + string(f)
}

// Render serialises network in the given format. Either the complete document
// is returned or an error, never a partial document.
func Render(network *models.Network, format Format) ([]byte, error) {
	encode, ok := encoders[format]
	if !ok {
		return nil, apperr.NewUnsupportedFormatError(string(format))
	}
	if err := checkNetwork(network, format); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := encode(&buf, network); err != nil {
		if apperr.GetAppError(err) != nil {
			return nil, err
		}
		return nil, apperr.NewSerializationError(string(format), err.Error()).WithCause(err)
	}
	return buf.Bytes(), nil
}

// Write renders network and copies the finished document to w.
func Write(w io.Writer, network *models.Network, format Format) error {
	data, err := Render(network, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
