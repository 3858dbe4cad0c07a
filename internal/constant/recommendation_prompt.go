package constant

const (
	RouterSystemPrompt = `You are a router tasked to output a route that best matches the following use cases.
"no" is a route used for time when user requests something, but does not implicate a preference that could be saved.
This route is also the default route.
"save" is a route used when user both requests something, and it is a preference or remark that should be saved.
"end" is a route used when user presents a preference or remark, but does not request any help
with decision or restaurant recommendations.
`

	// %s is the raw user input
	RouterUserPrompt = `Decide a route for this input: %s. Output in JSON format: {"route": **your answer**}.
Do not output anything else.`

	QueryFormulatorSystemPrompt = `You are a diligent restaurant recommendation query formatter.

Formulate a query string from the user input, that when used as a query to search for restaurants,
produces results that satisfy the user intent.

The query must describe the types of restaurants.
Use 1-4 words only.

Refrain from using location information in the query, like terms 'near me' or 'in Helsinki'.
Output only the query, no additional explanation is needed.
`
)

// Status messages streamed while a recommendation runs.
const (
	StatusDecidingRoute    = "Deciding a route"
	StatusGeneratingQuery  = "Generating a query"
	StatusSearching        = "Searching for restaurants"
	StatusCalculatingPrefs = "Calculating user preferences"
	StatusRanking          = "Ranking the restaurants"
	EndAcknowledgement     = "Saved a liking"
	NoRestaurantsMessage   = "Could not query for restaurants with this input. If you only meant to indicate a preference, try being more specific"
	GenericFailureMessage  = "Something went wrong while generating recommendations"
)
