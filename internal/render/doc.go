// Package render presents a model.DigestResult as a document.
//
// Renderers exist for HTML (the e-mail format), Markdown (with a mermaid pie
// chart), JSON and plain text. Presentation is kept apart from aggregation:
// a renderer formats the numbers it is given and never recomputes them.
//
// Punycode domains are displayed in Unicode next to their ASCII form, and
// counts use locale digit grouping.
package render
