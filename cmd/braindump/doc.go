// Command braindump captures notes from the terminal and sends them to the
// braindump service.
//
// Sign in once with `braindump login`; the session cookie is stored on disk
// and reused by later invocations. `braindump add` submits a single note,
// `braindump capture` reads one note per line until EOF. Either can ask the
// account's configured LLM provider for extra tags with --llm.
package main
