// Package textenc decodifica extractos exportados por X3 en codificaciones de Windows.
package textenc

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Inventario-x3/internal/domain"
)

// Codificaciones aceptadas en X3_INPUT_ENCODING.
const (
	UTF8        = "utf-8"
	Windows1252 = "windows-1252"
	ISO88591    = "iso-8859-1"
	Auto        = "auto"
)

// lookup resuelve el nombre (con alias habituales) a un encoding.
func lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", UTF8, "utf8":
		return unicode.UTF8BOM, nil
	case Windows1252, "cp1252":
		return charmap.Windows1252, nil
	case ISO88591, "latin1", "iso8859-1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("%w: codificación %q", domain.ErrUnsupportedFormat, name)
	}
}

// Validate verifica que el nombre de codificación sea soportado.
func Validate(name string) error {
	if strings.EqualFold(strings.TrimSpace(name), Auto) {
		return nil
	}
	_, err := lookup(name)
	return err
}

// NewReader envuelve r para entregar UTF-8 sin BOM.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// Decode convierte el contenido completo a UTF-8. Con "auto" se asume UTF-8 si los bytes
// son UTF-8 válido y windows-1252 en otro caso.
func Decode(content []byte, name string) ([]byte, error) {
	if strings.EqualFold(strings.TrimSpace(name), Auto) {
		name = Windows1252
		if utf8.Valid(content) {
			name = UTF8
		}
	}
	r, err := NewReader(bytes.NewReader(content), name)
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decodificar %s: %v", domain.ErrFormat, name, err)
	}
	return out, nil
}

// Decoder decodificador con la codificación configurada.
type Decoder struct {
	Encoding string
}

// Decode ver Decode.
func (d Decoder) Decode(content []byte) ([]byte, error) {
	return Decode(content, d.Encoding)
}
