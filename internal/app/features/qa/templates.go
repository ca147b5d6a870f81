// internal/app/features/qa/templates.go
package qa

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "qa",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
