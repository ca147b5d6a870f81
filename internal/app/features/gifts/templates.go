// internal/app/features/gifts/templates.go
package gifts

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "gifts",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
