// Package web serves the HTML pages. Pages render inside a full layout, or
// as a bare fragment when htmx asks for one.
package web
