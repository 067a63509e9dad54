// Package batch reads declarative queue definitions for bulk creation.
//
// A batch document exposes a top-level list named "mqs" whose elements carry
// a string "name" and integer "size" and "maxmsgs" fields. Callers consume it
// through the Document and Element lookup interfaces; Load decodes TOML, YAML
// or JSON files into a generic tree that satisfies them.
package batch
