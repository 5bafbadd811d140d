// Package tags normalizes and merges comma-separated tag lists.
package tags

import "strings"

// Split turns a raw comma-separated tag string into trimmed, non-empty tags.
func Split(raw string) []string {
	out := make([]string, 0, strings.Count(raw, ",")+1)
	for _, piece := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(piece); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// Merge combines the manual and LLM tag strings, manual tags first. Repeated
// tags are kept: the service receives exactly what both sources produced.
func Merge(manualRaw, llmRaw string) []string {
	manual := Split(manualRaw)
	auto := Split(llmRaw)
	merged := make([]string, 0, len(manual)+len(auto))
	merged = append(merged, manual...)
	merged = append(merged, auto...)
	return merged
}

// Join renders tags back into the comma-separated form used for input.
func Join(tags []string) string {
	return strings.Join(tags, ", ")
}
