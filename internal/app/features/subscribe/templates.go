// internal/app/features/subscribe/templates.go
package subscribe

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "subscribe",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
