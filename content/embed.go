// Package content holds the authored Powerline Penpals story tree. It is
// embedded so the binary can run without a content directory on disk.
package content

import "embed"

//go:embed catalog.yaml */region.yaml */*.md
var FS embed.FS
