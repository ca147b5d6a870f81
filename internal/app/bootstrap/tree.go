// internal/app/bootstrap/tree.go
package bootstrap

import (
	"net/http"

	"github.com/chosenvessel/vesselhub/internal/app/system/routetree"
)

// siteHandlers are the feature routers placed into the site tree.
type siteHandlers struct {
	Home       http.Handler
	Login      http.Handler
	Signup     http.Handler
	Logout     http.Handler
	Google     http.Handler
	Leadership http.Handler
	Terms      http.Handler
	Give       http.Handler
	Health     http.Handler

	Dashboard  http.Handler
	Live       http.Handler
	Chat       http.Handler
	Pastor     http.Handler
	Library    http.Handler
	QA         http.Handler
	Gifts      http.Handler
	Groups     http.Handler
	Prayer     http.Handler
	Devotional http.Handler
	Giving     http.Handler
	Events     http.Handler
	Journal    http.Handler
	Kids       http.Handler
	Profile    http.Handler

	Subscribe http.Handler
	Notify    http.Handler
	Admin     http.Handler
	Metrics   http.Handler
}

// siteTree is the whole route surface with the gate each subtree adds.
// Dashboard pages inherit Auth; the members-only areas add Premium.
func siteTree(h siteHandlers) []routetree.Node {
	return []routetree.Node{
		{Path: "/", Handler: h.Home},
		{Path: "/login", Handler: h.Login},
		{Path: "/signup", Handler: h.Signup},
		{Path: "/logout", Handler: h.Logout},
		{Path: "/auth/google", Handler: h.Google},
		{Path: "/leadership", Handler: h.Leadership},
		{Path: "/terms", Handler: h.Terms},
		{Path: "/give", Handler: h.Give},
		{Path: "/health", Handler: h.Health},

		{Path: "/dashboard", Gate: routetree.Auth, Handler: h.Dashboard, Children: []routetree.Node{
			{Path: "/live", Gate: routetree.Premium, Handler: h.Live},
			{Path: "/chat", Gate: routetree.Premium, Handler: h.Chat},
			{Path: "/pastor", Gate: routetree.Premium, Handler: h.Pastor},
			{Path: "/library", Gate: routetree.Premium, Handler: h.Library},
			{Path: "/qa", Gate: routetree.Premium, Handler: h.QA},
			{Path: "/gifts", Gate: routetree.Premium, Handler: h.Gifts},
			{Path: "/groups", Gate: routetree.Premium, Handler: h.Groups},
			{Path: "/prayer", Handler: h.Prayer},
			{Path: "/devotional", Handler: h.Devotional},
			{Path: "/giving", Handler: h.Giving},
			{Path: "/events", Handler: h.Events},
			{Path: "/journal", Handler: h.Journal},
			{Path: "/kids", Handler: h.Kids},
			{Path: "/profile", Handler: h.Profile},
		}},

		{Path: "/subscribe", Gate: routetree.Auth, Handler: h.Subscribe},
		{Path: "/notify", Gate: routetree.Auth, Handler: h.Notify},
		{Path: "/admin", Gate: routetree.Admin, Handler: h.Admin},
		{Path: "/metrics", Gate: routetree.Admin, Handler: h.Metrics},
	}
}
