package engine

// Menu prompts, rendered by the provider's TTS.
const (
	welcomePrompt = "Welcome to this Telnyx IVR Demo," +
		"To contact sales please press 1," +
		"To contact operations, please press 2."

	salesPrompt = "You reached the sales support channel," +
		"To contact an Account Executive please press 1," +
		"To contact a Sales Engineer, please press 2,"

	operationsPrompt = "You reached the operations support channel," +
		"no operations staff is available at the moment," +
		"please try again later"
)

// Every menu level gathers a single digit from the same choice set.
const (
	menuDigits    = "12"
	menuMaxDigits = 1
)
