// Package report renders analysis summaries.
//
// Four formats are supported:
//   - text: the plain report for terminals (SimpleWriter)
//   - markdown: GitHub Flavored Markdown with tables and a mermaid pie
//     chart of the key combinations (MarkdownWriter)
//   - json and yaml: the Summary itself, for tools (JSONWriter, YAMLWriter)
//
// Writers only render. Ordering, filtering and the top-N cut are decided
// by the analyzer before a Summary reaches this package.
package report
