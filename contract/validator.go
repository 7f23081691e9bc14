// Package contract validates captured responses against an OpenAPI
// document.
package contract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// Validator wraps a parsed OpenAPI document and its route table.
type Validator struct {
	doc    *openapi3.T
	router routers.Router
}

// LoadFromFile parses and validates the OpenAPI document at path.
func LoadFromFile(path string) (*Validator, error) {
	loader := &openapi3.Loader{IsExternalRefsAllowed: true}
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading openapi document %s: %w", path, err)
	}
	return build(doc)
}

// LoadFromBytes parses and validates an in-memory OpenAPI document
// (YAML or JSON).
func LoadFromBytes(data []byte) (*Validator, error) {
	loader := &openapi3.Loader{IsExternalRefsAllowed: true}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("loading openapi document: %w", err)
	}
	return build(doc)
}

func build(doc *openapi3.T) (*Validator, error) {
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validating openapi document: %w", err)
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("building openapi route table: %w", err)
	}
	return &Validator{doc: doc, router: router}, nil
}

// Doc exposes the parsed document.
func (v *Validator) Doc() *openapi3.T { return v.doc }

// ValidateResponse checks one captured response against the operation
// matching method and rawURL (a bare path like "/users/42" is enough).
func (v *Validator) ValidateResponse(method, rawURL string, status int, header http.Header, body []byte) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing url %q: %w", rawURL, err)
	}
	req := &http.Request{
		Method: method,
		URL:    u,
		Header: header,
	}
	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		return fmt.Errorf("no operation matches %s %s: %w", method, rawURL, err)
	}
	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
			Options:    &openapi3filter.Options{},
		},
		Status:  status,
		Header:  header,
		Body:    io.NopCloser(bytes.NewReader(body)),
		Options: &openapi3filter.Options{},
	}
	return openapi3filter.ValidateResponse(context.Background(), input)
}
