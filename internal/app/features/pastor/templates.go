// internal/app/features/pastor/templates.go
package pastor

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "pastor",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
