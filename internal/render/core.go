package render

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/mark3labs/swagger2ts/internal/emit"
	"github.com/mark3labs/swagger2ts/internal/ir"
	"github.com/mark3labs/swagger2ts/internal/naming"
)

//go:embed templates
var templateFS embed.FS

// coreFiles are rendered for every client that ships the core runtime.
var coreFiles = []string{
	"ApiError.ts",
	"ApiRequestOptions.ts",
	"ApiResult.ts",
	"CancelablePromise.ts",
	"OpenAPI.ts",
	"request.ts",
}

// httpRequestClasses names the BaseHttpRequest implementation of each
// client flavor.
var httpRequestClasses = map[string]string{
	"fetch":   "FetchHttpRequest",
	"xhr":     "XHRHttpRequest",
	"node":    "NodeHttpRequest",
	"axios":   "AxiosHttpRequest",
	"angular": "AngularHttpRequest",
}

// interceptorTypes are the request and response types the interceptors of
// each flavor receive.
var interceptorTypes = map[string][2]string{
	"xhr":     {"XMLHttpRequest", "XMLHttpRequest"},
	"axios":   {"AxiosRequestConfig", "AxiosResponse"},
	"angular": {"HttpRequest<unknown>", "HttpResponse<unknown>"},
}

// HTTPRequestClass returns the name of the BaseHttpRequest implementation
// generated for client.
func HTTPRequestClass(client string) string {
	if c, ok := httpRequestClasses[client]; ok {
		return c
	}
	return "FetchHttpRequest"
}

type serviceRef struct {
	Class    string
	Property string
}

func loadTemplate(name string) (*pongo2.Template, error) {
	data, err := templateFS.ReadFile(path.Join("templates", name))
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	tpl, err := pongo2.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return tpl, nil
}

func execute(name string, ctx pongo2.Context) ([]byte, error) {
	tpl, err := loadTemplate(name)
	if err != nil {
		return nil, err
	}
	out, err := tpl.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return []byte(strings.TrimRight(out, "\n") + "\n"), nil
}

func templateContext(client *ir.Client, opts emit.Options) pongo2.Context {
	types, ok := interceptorTypes[opts.Client]
	if !ok {
		types = [2]string{"RequestInit", "Response"}
	}

	var (
		services []serviceRef
		classes  []string
	)
	for _, svc := range client.Services {
		cls := emit.ServiceClassName(svc.Name)
		services = append(services, serviceRef{Class: cls, Property: naming.Camel(svc.Name)})
		classes = append(classes, cls)
	}

	return pongo2.Context{
		"client":       opts.Client,
		"name":         opts.Name,
		"server":       quote(client.Server),
		"version":      quote(client.Version),
		"httpRequest":  HTTPRequestClass(opts.Client),
		"requestType":  types[0],
		"responseType": types[1],
		"services":     services,
		"serviceList":  strings.Join(classes, ", "),
	}
}

// Core renders the core runtime files. The BaseHttpRequest pair is added
// when the client class is named.
func Core(client *ir.Client, opts emit.Options) ([]File, error) {
	ctx := templateContext(client, opts)

	var out []File
	for _, name := range coreFiles {
		content, err := execute("core/"+name+".tmpl", ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, File{Path: "core/" + name, Content: content})
	}
	if opts.Name == "" {
		return out, nil
	}

	base, err := execute("core/BaseHttpRequest.ts.tmpl", ctx)
	if err != nil {
		return nil, err
	}
	impl, err := execute("core/HttpRequest.ts.tmpl", ctx)
	if err != nil {
		return nil, err
	}
	return append(out,
		File{Path: "core/BaseHttpRequest.ts", Content: base},
		File{Path: "core/" + HTTPRequestClass(opts.Client) + ".ts", Content: impl},
	), nil
}

// ClientClass renders the named client class wrapping every service.
func ClientClass(client *ir.Client, opts emit.Options) (File, error) {
	content, err := execute("client.ts.tmpl", templateContext(client, opts))
	if err != nil {
		return File{}, err
	}
	return File{Path: opts.Name + ".ts", Content: content}, nil
}
