// Package extract recovers structured values from free-form model
// completions. The generator is not guaranteed to produce valid or
// well-delimited JSON, so extraction is best-effort: a malformed
// completion degrades to an empty or fallback value, never an error.
package extract

// Job is a single freight job extracted from a parsed message.
// All fields are optional; absent fields stay empty. A completion may
// yield any number of jobs, duplicates included.
type Job struct {
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	Weight      string `json:"weight,omitempty"`
	VehicleType string `json:"vehicle_type,omitempty"`
	BodyType    string `json:"body_type,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Intent is the classification result for a single user message.
// Location, vehicle and cargo fields are pointers so an absent field
// serializes as null, matching the assistant's response contract.
type Intent struct {
	Intent      string  `json:"intent"`
	Origin      *string `json:"origin"`
	Destination *string `json:"destination"`
	VehicleType *string `json:"vehicle_type"`
	CargoType   *string `json:"cargo_type"`
}

// Intent vocabulary produced by the classifier model.
const (
	IntentSearch           = "search"
	IntentPagination       = "pagination"
	IntentIntraCity        = "intra_city"
	IntentGreeting         = "greeting"
	IntentGoodbye          = "goodbye"
	IntentThanks           = "thanks"
	IntentBotIdentity      = "bot_identity"
	IntentHelp             = "help"
	IntentPricing          = "pricing"
	IntentSubscription     = "subscription"
	IntentSupport          = "support"
	IntentPhoneQuestion    = "phone_question"
	IntentLoadPrice        = "load_price"
	IntentFreshness        = "freshness"
	IntentVehicleInfo      = "vehicle_info"
	IntentLocationInfo     = "location_info"
	IntentFeedbackPositive = "feedback_positive"
	IntentFeedbackNegative = "feedback_negative"
	IntentConfirmation     = "confirmation"
	IntentNegation         = "negation"
	IntentAbuse            = "abuse"
	IntentSpam             = "spam"
	IntentInternational    = "international"
	IntentOther            = "other"
)
