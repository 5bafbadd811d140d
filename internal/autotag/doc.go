// Package autotag asks the note service's LLM proxy for candidate tags.
//
// Resolution is a join point: ResolveAsync starts the request on its own
// goroutine and returns a one-shot channel, Resolve blocks on that channel.
// When auto-tagging is disabled no request is made and the result is empty.
//
// Failures never escape. A network error or a response that is not shaped
// like {content:[{text}]} is logged and resolves to "", so note submission
// continues with manual tags only.
package autotag
