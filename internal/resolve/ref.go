package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/swagger2ts/internal/ir"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

// ErrUnsupportedRef is returned for references outside the component
// locations the resolvers understand, external documents included, and for
// component references whose target does not exist.
var ErrUnsupportedRef = errors.New("resolve: unsupported reference")

var schemaRefPrefixes = []string{"#/components/schemas/", "#/definitions/"}

// schemaRefType resolves a schema reference to the Type of the named
// definition. Only the name is recorded; the definition body is never
// expanded here.
func schemaRefType(ref string) (ir.Type, error) {
	if !hasAnyPrefix(ref, schemaRefPrefixes) {
		return ir.Type{}, fmt.Errorf("%w: %q", ErrUnsupportedRef, ref)
	}
	return Type(ref, ""), nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// lookup follows a chain of component references through table.
func lookup[T any](ref string, table map[string]*T, next func(*T) string, prefixes ...string) (*T, error) {
	seen := make(map[string]struct{})
	for {
		if _, loop := seen[ref]; loop {
			return nil, fmt.Errorf("%w: cyclic reference %q", ErrUnsupportedRef, ref)
		}
		seen[ref] = struct{}{}

		if !hasAnyPrefix(ref, prefixes) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedRef, ref)
		}
		target, ok := table[stripNamespace(ref)]
		if !ok || target == nil {
			return nil, fmt.Errorf("%w: %q not found", ErrUnsupportedRef, ref)
		}
		if next(target) == "" {
			return target, nil
		}
		ref = next(target)
	}
}

func (r *Resolver) parameter(p *spec.Parameter) (*spec.Parameter, error) {
	if p.Ref == "" {
		return p, nil
	}
	return lookup(p.Ref, r.doc.Parameters, func(t *spec.Parameter) string { return t.Ref },
		"#/components/parameters/", "#/parameters/")
}

func (r *Resolver) response(resp *spec.Response) (*spec.Response, error) {
	if resp.Ref == "" {
		return resp, nil
	}
	return lookup(resp.Ref, r.doc.Responses, func(t *spec.Response) string { return t.Ref },
		"#/components/responses/", "#/responses/")
}

func (r *Resolver) requestBody(b *spec.RequestBody) (*spec.RequestBody, error) {
	if b.Ref == "" {
		return b, nil
	}
	return lookup(b.Ref, r.doc.RequestBodies, func(t *spec.RequestBody) string { return t.Ref },
		"#/components/requestBodies/")
}
