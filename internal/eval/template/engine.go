package template

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aymerick/raymond"
)

// Engine renders Handlebars templates
type Engine struct {
	cache map[string]*raymond.Template
	mu    sync.RWMutex
}

var registerOnce sync.Once

// NewEngine creates a new template engine
func NewEngine() *Engine {
	// Helpers are registered globally in raymond, so register them once
	registerOnce.Do(registerHelpers)

	return &Engine{
		cache: make(map[string]*raymond.Template),
	}
}

// Render renders a template with the given data
func (e *Engine) Render(templateStr string, data interface{}) (string, error) {
	tmpl, err := e.getTemplate(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to compile template: %w", err)
	}

	result, err := tmpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}

	return result, nil
}

// getTemplate gets a compiled template from cache or compiles it
func (e *Engine) getTemplate(templateStr string) (*raymond.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.cache[templateStr]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Check again in case another goroutine compiled it
	if tmpl, ok := e.cache[templateStr]; ok {
		return tmpl, nil
	}

	tmpl, err := raymond.Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	e.cache[templateStr] = tmpl

	return tmpl, nil
}

// ValidateTemplate validates a template without rendering it
func (e *Engine) ValidateTemplate(templateStr string) error {
	_, err := raymond.Parse(templateStr)
	return err
}

// registerHelpers registers the Handlebars helpers used by the prompt and
// article templates
func registerHelpers() {
	// uppercase helper
	raymond.RegisterHelper("uppercase", func(str string) string {
		return strings.ToUpper(str)
	})

	// trim helper
	raymond.RegisterHelper("trim", func(str string) string {
		return strings.TrimSpace(str)
	})

	// default helper - return default value if first arg is empty
	raymond.RegisterHelper("default", func(value interface{}, defaultValue interface{}) interface{} {
		if value == nil || value == "" {
			return defaultValue
		}
		return value
	})

	// join helper - join array elements with separator
	raymond.RegisterHelper("join", func(arr []interface{}, sep string) string {
		strs := make([]string, len(arr))
		for i, v := range arr {
			strs[i] = fmt.Sprint(v)
		}
		return strings.Join(strs, sep)
	})

	// numbered helper - render array elements as a numbered list, one per line
	raymond.RegisterHelper("numbered", func(value interface{}) string {
		var lines []string
		for i, item := range toSlice(value) {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
		}
		return strings.Join(lines, "\n")
	})

	// paragraphs helper - split text on blank lines and wrap each paragraph
	// in a <p> tag, escaping the content
	raymond.RegisterHelper("paragraphs", func(text string) raymond.SafeString {
		var parts []string
		for _, para := range strings.Split(text, "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			parts = append(parts, "<p>"+raymond.Escape(para)+"</p>")
		}
		return raymond.SafeString(strings.Join(parts, "\n"))
	})

	// listItems helper - render array elements as escaped <li> tags
	raymond.RegisterHelper("listItems", func(value interface{}) raymond.SafeString {
		var parts []string
		for _, item := range toSlice(value) {
			parts = append(parts, "<li>"+raymond.Escape(item)+"</li>")
		}
		return raymond.SafeString(strings.Join(parts, "\n"))
	})
}

// toSlice normalizes the value shapes produced by JSON decoding
func toSlice(value interface{}) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []interface{}:
		strs := make([]string, len(v))
		for i, item := range v {
			strs[i] = fmt.Sprint(item)
		}
		return strs
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(v)}
	}
}
