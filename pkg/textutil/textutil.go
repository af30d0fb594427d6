// Package textutil normaliza texto para nombres de archivo y cabeceras HTTP.
package textutil

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxExtLen = 10

// StripAccents quita diacríticos: "Código Año" → "Codigo Ano".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// SafeFilename deja solo ASCII alfanumérico, punto, guion y guion bajo.
// Los espacios y demás caracteres pasan a guion bajo. Nunca devuelve vacío.
func SafeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = StripAccents(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "archivo"
	}
	return out
}

// Ext devuelve la extensión saneada en minúsculas (con punto) o "" si no hay una válida.
func Ext(name string) string {
	ext := strings.ToLower(filepath.Ext(SafeFilename(name)))
	if len(ext) < 2 || len(ext) > maxExtLen {
		return ""
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return ""
		}
	}
	return ext
}
