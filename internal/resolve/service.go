package resolve

import (
	"github.com/mark3labs/swagger2ts/internal/ir"
	"github.com/mark3labs/swagger2ts/internal/naming"
)

// ServiceName turns a tag into a service name.
func ServiceName(tag string) string {
	return naming.Pascal(naming.SanitizeNamespaceIdentifier(tag))
}

// Services groups every operation of the document by tag, in order of first
// appearance. Untagged operations go to the Default service; an operation
// with several tags appears in each of them.
func (r *Resolver) Services() ([]*ir.Service, error) {
	var services []*ir.Service
	byName := make(map[string]*ir.Service)

	for _, item := range r.doc.Paths {
		for _, op := range item.Operations {
			tags := op.Tags
			if len(tags) == 0 {
				tags = []string{ir.DefaultServiceName}
			}
			for _, tag := range tags {
				name := ServiceName(tag)
				if name == "" {
					name = ir.DefaultServiceName
				}
				o, err := r.Operation(item, op, name)
				if err != nil {
					return nil, err
				}
				svc, ok := byName[name]
				if !ok {
					svc = &ir.Service{Name: name}
					byName[name] = svc
					services = append(services, svc)
				}
				svc.Operations = append(svc.Operations, o)
				svc.Imports = append(svc.Imports, o.Imports...)
			}
		}
	}
	return services, nil
}
