package template

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"
)

var cache sync.Map // template text -> *template.Template

// Parse renders a prompt template with the given fields, caching parsed
// templates by their text.
func Parse(text string, fields any) (string, error) {
	var tmpl *template.Template
	if cached, ok := cache.Load(text); ok {
		tmpl = cached.(*template.Template)
	} else {
		tmpl = template.Must(template.New("").Parse(text))
		cache.Store(text, tmpl)
	}

	var result bytes.Buffer
	err := tmpl.Execute(&result, fields)
	if err != nil {
		return "", fmt.Errorf("execute: %w", err)
	}

	return result.String(), nil
}
