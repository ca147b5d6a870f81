// internal/app/features/prayer/templates.go
package prayer

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "prayer",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
