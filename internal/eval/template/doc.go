// Package template provides Handlebars template rendering for LLM prompts and
// the newspaper article layout.
//
// Templates are compiled once and cached. Custom helpers cover the needs of
// the demo's templates:
//   - uppercase, trim, default, join: plain string manipulation
//   - numbered: numbered list for routing prompts
//   - paragraphs: blank-line-separated text to escaped <p> tags
//   - listItems: array to escaped <li> tags
//
// Example usage:
//
//	engine := template.NewEngine()
//	out, err := engine.Render("Hello {{uppercase name}}", map[string]interface{}{
//	    "name": "world",
//	})
package template
