package api

// Endpoint paths exposed by the note service.
const (
	PathLogin            = "/api/login"
	PathNotes            = "/api/notes"
	PathAI               = "/api/ai"
	PathCheckAnthropic   = "/api/checkAnthropicApiKey"
	PathCheckOpenAI      = "/api/checkOpenAIApiKey"
	PathModelPreferences = "/api/getModelPreferences"
)
