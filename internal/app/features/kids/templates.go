// internal/app/features/kids/templates.go
package kids

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "kids",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
