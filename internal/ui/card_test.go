package ui

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func TestRenderCard(t *testing.T) {
	t.Run("labels are aligned under the title", func(t *testing.T) {
		fields := []Field{
			{Label: "Nombre", Value: "Shadow Dragon"},
			{Label: "Stock", Value: "3"},
		}

		output := stripANSI(RenderCard("Agregar nuevo pet", fields))

		assert.Equal(t, "◆ Agregar nuevo pet\n  Nombre  Shadow Dragon\n  Stock   3\n", output)
	})

	t.Run("empty optional field is left out", func(t *testing.T) {
		fields := []Field{
			{Label: "Nombre", Value: "x"},
			{Label: "Imagen", Optional: true},
		}

		output := stripANSI(RenderCard("Title", fields))

		assert.NotContains(t, output, "Imagen")
	})

	t.Run("empty required field is flagged", func(t *testing.T) {
		fields := []Field{{Label: "Precio"}}

		output := stripANSI(RenderCard("Title", fields))

		assert.Contains(t, output, "  Precio  falta\n")
	})

	t.Run("no fields prints only the title", func(t *testing.T) {
		assert.Equal(t, "◆ Title\n", stripANSI(RenderCard("Title", nil)))
	})
}

func TestRenderOutcome(t *testing.T) {
	t.Run("headline ref and notes", func(t *testing.T) {
		output := stripANSI(RenderOutcome("Agregado Shadow Dragon", "ID 7", []string{"Raro · $ 60000", "Stock: 3"}))

		assert.Equal(t, "✓ Agregado Shadow Dragon (ID 7)\n  Raro · $ 60000\n  Stock: 3\n", output)
	})

	t.Run("headline only", func(t *testing.T) {
		assert.Equal(t, "✓ Sesión cerrada\n", stripANSI(RenderOutcome("Sesión cerrada", "", nil)))
	})
}

func TestFormTheme(t *testing.T) {
	theme := FormTheme()

	assert.Equal(t, "✗", theme.Focused.ErrorMessage.Value())
	assert.Equal(t, "✗", theme.Blurred.ErrorMessage.Value())
}
