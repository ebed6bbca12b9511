// Package record turns single JSONL lines into the set of top-level keys
// of the JSON object they contain.
//
// Parsing is a pure function of the line text. A blank line is absent
// rather than a failure; callers check IsBlank before calling Parse.
// Every other line either yields a KeySet or a *ParseError whose Kind
// distinguishes invalid JSON from valid JSON that is not an object.
package record
