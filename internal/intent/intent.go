// Package intent classifies user messages into the bot's supported intents.
package intent

// Type is a supported conversation intent.
type Type string

const (
	Greeting           Type = "greeting"
	GeneralQnA         Type = "general_qna"
	CarRecommendation  Type = "car_recommendation"
	CarComparison      Type = "car_comparison"
	BookRide           Type = "book_ride"
	FindEVCharger      Type = "find_ev_charger_location"
	BikeRecommendation Type = "bike_recommendation"
	BikeComparison     Type = "bike_comparison"
)

// All lists every supported intent.
func All() []Type {
	return []Type{
		Greeting,
		GeneralQnA,
		CarRecommendation,
		CarComparison,
		BookRide,
		FindEVCharger,
		BikeRecommendation,
		BikeComparison,
	}
}

// Valid reports whether t is a supported intent.
func (t Type) Valid() bool {
	for _, known := range All() {
		if t == known {
			return true
		}
	}
	return false
}

// Classification is the model's verdict on a message.
type Classification struct {
	Intent     Type    `json:"intent_name" jsonschema_description:"The classified intent type"`
	Confidence float64 `json:"confidence" jsonschema_description:"Confidence score between 0 and 1"`
}

// Normalize clamps a classification to something the router can act on:
// unknown intents become general_qna and confidence is bounded to [0, 1].
func (c Classification) Normalize() Classification {
	if !c.Intent.Valid() {
		return Classification{Intent: GeneralQnA, Confidence: 0}
	}
	if c.Confidence < 0 {
		c.Confidence = 0
	}
	if c.Confidence > 1 {
		c.Confidence = 1
	}
	return c
}
