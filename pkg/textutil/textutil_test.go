package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripAccents(t *testing.T) {
	assert.Equal(t, "Codigo Ano Ubicacion", StripAccents("Código Año Ubicación"))
	assert.Equal(t, "plain", StripAccents("plain"))
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Factura Técnica.pdf", "Factura_Tecnica.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\ana\foto 1.JPG`, "foto_1.JPG"},
		{"..", "archivo"},
		{"", "archivo"},
		{"informe(final)#2.docx", "informe_final__2.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeFilename(tt.in))
		})
	}
}

func TestExt(t *testing.T) {
	assert.Equal(t, ".pdf", Ext("Acta.PDF"))
	assert.Equal(t, ".xlsx", Ext("reporte.xlsx"))
	assert.Equal(t, "", Ext("sin_extension"))
	assert.Equal(t, "", Ext("raro.abcdefghijklmnop"))
}
