package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/almacen-api/pkg/search"
)

func TestFold_QuitaAcentosYMayusculas(t *testing.T) {
	cases := map[string]string{
		"Azúcar":         "azucar",
		"CAFÉ Colombia":  "cafe colombia",
		"Ñoño":           "nono",
		"sin-acentos 12": "sin-acentos 12",
		"":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, search.Fold(in), "Fold(%q)", in)
	}
}
