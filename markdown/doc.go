// Package markdown provides the authoring preview pipeline: it converts
// Markdown source into sanitized HTML and extracts the heading outline the
// table of contents and scroll navigation consume.
package markdown
