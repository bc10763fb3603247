// Package pkg holds project metadata and the per-user directories shared by
// the command line tools.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It appears in help text and names the
	// configuration and cache directories.
	Name = "fala"
	// Description is the one-line summary shown in help output.
	Description = "Front-end and interpreter for a Portuguese-keyword teaching language"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary authors.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
