// internal/app/features/leadership/templates.go
package leadership

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "leadership",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
