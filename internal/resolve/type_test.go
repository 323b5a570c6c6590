package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappedType(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"any":       "unknown",
		"object":    "unknown",
		"array":     "unknown[]",
		"boolean":   "boolean",
		"byte":      "number",
		"double":    "number",
		"float":     "number",
		"int":       "number",
		"integer":   "number",
		"long":      "number",
		"number":    "number",
		"short":     "number",
		"char":      "string",
		"date":      "string",
		"date-time": "string",
		"password":  "string",
		"string":    "string",
		"file":      "binary",
		"null":      "null",
		"void":      "void",
	}
	for token, want := range cases {
		got, ok := MappedType(token, "")
		assert.True(t, ok, token)
		assert.Equal(t, want, got, token)
	}

	_, ok := MappedType("Pet", "")
	assert.False(t, ok)

	got, ok := MappedType("string", "binary")
	assert.True(t, ok)
	assert.Equal(t, "binary", got)
}

func TestType(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		raw      string
		wantType string
		wantBase string
		wantTpl  string
		imports  []string
	}{
		{"primitive", "integer", "number", "number", "", nil},
		{"array marker", "array[Pet]", "Pet[]", "Pet", "", []string{"Pet"}},
		{"array of primitive", "array[string]", "string[]", "string", "", nil},
		{"reference", "#/components/schemas/Pet", "Pet", "Pet", "", []string{"Pet"}},
		{"v2 reference", "#/definitions/pet.Owner-v1+x", "pet_Owner_v1_x", "pet_Owner_v1_x", "", []string{"pet_Owner_v1_x"}},
		{"template", "#/components/schemas/Link[Model]", "Link<Model>", "Link", "Model", []string{"Link", "Model"}},
		{"self template", "#/components/schemas/Link[Link]", "Link<Link>", "Link", "Link", []string{"Link", "Link"}},
		{"primitive template", "#/definitions/Page[string]", "Page<string>", "Page", "string", []string{"Page"}},
		{"reserved", "#/components/schemas/delete", "delete_", "delete_", "", []string{"delete_"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Type(tt.raw, "")
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantBase, got.Base)
			assert.Equal(t, tt.wantTpl, got.Template)
			assert.Equal(t, tt.imports, got.Imports)
			assert.False(t, got.IsNullable)
		})
	}
}

func TestTypes_Null(t *testing.T) {
	t.Parallel()

	got := Types([]string{"string", "null"}, "")
	assert.Equal(t, "string", got.Type)
	assert.True(t, got.IsNullable)

	got = Types([]string{"null", "integer", "string"}, "")
	assert.Equal(t, "number | string", got.Type)
	assert.Equal(t, got.Type, got.Base)
	assert.True(t, got.IsNullable)
	assert.NotContains(t, got.Type, "null")
	assert.Empty(t, got.Imports)

	got = Types([]string{"null"}, "")
	assert.Equal(t, "null", got.Type)
	assert.True(t, got.IsNullable)
}

func TestTypes_UnionKeepsImports(t *testing.T) {
	t.Parallel()
	got := Types([]string{"#/definitions/A", "#/definitions/A", "integer", "long"}, "")
	assert.Equal(t, "A | number", got.Type)
	require.Equal(t, []string{"A", "A"}, got.Imports)
}
