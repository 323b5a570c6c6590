package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeIdentifier(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"User", "User"},
		{"user name", "user_name"},
		{"123abc", "_123abc"},
		{"a--b", "a_b"},
		{"a..b", "a_b"},
		{"$ref", "$ref"},
		{"", EmptyPlaceholder},
		{"---", EmptyPlaceholder},
		{"Über", "Über"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeIdentifier(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeTypeName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "model_000", SanitizeTypeName("model.000"))
	assert.Equal(t, "some_special_schema", SanitizeTypeName("some_special-schema"))
	assert.Equal(t, "$some_special_schema", SanitizeTypeName("$some+special+schema"))
}

func TestSanitizeParameterName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "filterSomeProperty", Camel(SanitizeParameterName("filter.someProperty")))
	assert.Equal(t, "idsArray", Camel(SanitizeParameterName("ids[]")))
	assert.Equal(t, "xRequestId", Camel(SanitizeParameterName("X-Request-Id")))
	assert.Equal(t, "page", Camel(SanitizeParameterName("_page")))
}

func TestEscapeName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "name", EscapeName("name"))
	assert.Equal(t, "'content-type'", EscapeName("content-type"))
	assert.Equal(t, "'200'", EscapeName("200"))
	assert.Equal(t, "name", UnescapeName("'name'"))
	assert.Equal(t, "name", UnescapeName(`"name"`))
}

func TestEnumKey(t *testing.T) {
	t.Parallel()
	tests := []struct {
		value  any
		custom string
		want   string
	}{
		{"Success", "", "SUCCESS"},
		{"fooBar", "", "FOO_BAR"},
		{"foo-bar", "", "FOO_BAR"},
		{"1st", "", "_1ST"},
		{"", "", "EMPTY_STRING"},
		{nil, "", "EMPTY_STRING"},
		{42, "", "'_42'"},
		{1.5, "", "'_1.5'"},
		{"x", "CustomName", "CustomName"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EnumKey(tt.value, tt.custom), "value %v", tt.value)
	}
}

func TestEnumName_CollisionReturnsSkip(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()

	name, ok := EnumName(reg, "status-enum")
	require.True(t, ok)
	assert.Equal(t, "StatusEnum", name)

	// "status_enum" sanitizes to the same name and must be skipped.
	name, ok = EnumName(reg, "status_enum")
	assert.False(t, ok)
	assert.Empty(t, name)

	_, ok = EnumName(reg, "'other'")
	assert.True(t, ok)
	assert.Equal(t, []string{"StatusEnum", "Other"}, reg.Names())

	_, ok = EnumName(reg, "")
	assert.False(t, ok)
}

func TestEnumName_RegistriesAreIndependent(t *testing.T) {
	t.Parallel()
	a, b := NewRegistry(), NewRegistry()
	_, ok := EnumName(a, "Color")
	require.True(t, ok)
	_, ok = EnumName(b, "Color")
	assert.True(t, ok)
}

func TestEnumUnion(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `'a' | 'b' | "it's" | 1`, EnumUnion([]any{"a", "b", "a", "it's", 1}))
}

func TestEscapeReserved(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "delete_", EscapeReserved("delete"))
	assert.Equal(t, "remove", EscapeReserved("remove"))
	assert.True(t, IsReserved("class"))
}
