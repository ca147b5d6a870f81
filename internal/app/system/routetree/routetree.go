// Package routetree describes the site as a declarative tree of paths and
// access gates and mounts it on a chi router. A node inherits the gates of
// its ancestors.
package routetree

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Gate is the access requirement a node adds to its subtree.
type Gate int

const (
	Public Gate = iota
	Auth
	Premium
	Admin
)

func (g Gate) String() string {
	switch g {
	case Auth:
		return "auth"
	case Premium:
		return "premium"
	case Admin:
		return "admin"
	}
	return "public"
}

// Node is one path in the tree. Handler serves the node's own path and
// anything below it that no child claims.
type Node struct {
	Path     string
	Gate     Gate
	Handler  http.Handler
	Children []Node
}

// Middlewares maps gates to the middleware enforcing them.
type Middlewares map[Gate]func(http.Handler) http.Handler

// Mount registers nodes on r.
func Mount(r chi.Router, nodes []Node, mw Middlewares) {
	for _, n := range nodes {
		mount(r, n, mw)
	}
}

func mount(r chi.Router, n Node, mw Middlewares) {
	r.Route(n.Path, func(sub chi.Router) {
		if m, ok := mw[n.Gate]; ok && n.Gate != Public {
			sub.Use(m)
		}
		for _, c := range n.Children {
			mount(sub, c, mw)
		}
		if n.Handler != nil {
			sub.Mount("/", n.Handler)
		}
	})
}

// Leaf is a flattened node with every gate on its path from the root.
type Leaf struct {
	Path  string
	Gates []Gate
}

// Has reports whether g guards the leaf.
func (l Leaf) Has(g Gate) bool {
	for _, x := range l.Gates {
		if x == g {
			return true
		}
	}
	return false
}

// Leaves flattens the tree; useful for listing and for tests.
func Leaves(nodes []Node) []Leaf {
	var out []Leaf
	var walk func(prefix string, gates []Gate, ns []Node)
	walk = func(prefix string, gates []Gate, ns []Node) {
		for _, n := range ns {
			full := join(prefix, n.Path)
			g := gates
			if n.Gate != Public {
				g = append(append([]Gate(nil), gates...), n.Gate)
			}
			if n.Handler != nil {
				out = append(out, Leaf{Path: full, Gates: g})
			}
			walk(full, g, n.Children)
		}
	}
	walk("", nil, nodes)
	return out
}

func join(prefix, p string) string {
	full := path.Join("/", prefix, p)
	if full != "/" {
		full = strings.TrimSuffix(full, "/")
	}
	return full
}
