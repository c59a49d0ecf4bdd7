// Package skill maps classified intents to the system prompt and tool set
// the orchestrator hands the model for that turn.
package skill

import "github.com/vahanlabs/mahindrabot/internal/intent"

// Skill pairs an instruction with the tools relevant to it. The instruction
// becomes the model's system prompt for the turn; RelevantTools restricts
// which registered tools the model may call.
type Skill struct {
	Name          string
	Instruction   string
	RelevantTools []string
}

const persona = `You are Mahindra Bot, a helpful assistant for car and bike
buyers in India. Be concise and factual; use the available tools for any
catalog, booking or charger question rather than answering from memory.
Prices are in INR.`

var registry = map[intent.Type]Skill{
	intent.Greeting: {
		Name: "greeting",
		Instruction: persona + `

The user is greeting you or making small talk. Respond warmly in one or two
sentences, introduce what you can help with (finding cars and bikes,
comparisons, test drives, FAQs, EV chargers) and invite a question. Do not
call tools.`,
	},
	intent.GeneralQnA: {
		Name: "general_qna",
		Instruction: persona + `

Answer the user's question using search_faq. Ground your answer in the
returned FAQ entries; if nothing relevant comes back, say so and suggest
contacting support rather than guessing.`,
		RelevantTools: []string{"search_faq"},
	},
	intent.CarRecommendation: {
		Name: "car_recommendation",
		Instruction: persona + `

Help the user find a car. Use list_cars for filter-driven requests (budget,
body type, fuel, seating) and search_car when they name a model. Fetch
get_car_details or get_extended_car_details before making claims about a
specific car. Present at most a handful of options with price and one-line
reasoning.`,
		RelevantTools: []string{"list_cars", "search_car", "get_car_details", "get_extended_car_details"},
	},
	intent.CarComparison: {
		Name: "car_comparison",
		Instruction: persona + `

Compare the cars the user names. Resolve each to its catalog ID with
search_car if needed, then call get_car_comparison and summarize the
differences that matter for the user's stated priorities.`,
		RelevantTools: []string{"search_car", "get_car_details", "get_car_comparison"},
	},
	intent.BookRide: {
		Name: "book_ride",
		Instruction: persona + `

Handle the test drive flow. To start a booking you need the user's full name
and phone number; once you have both, call book_ride. When the user supplies
an OTP, call confirm_ride with it. Never invent or reveal OTP values.`,
		RelevantTools: []string{"book_ride", "confirm_ride"},
	},
	intent.FindEVCharger: {
		Name: "find_ev_charger_location",
		Instruction: persona + `

Find EV charging stations. You need an Indian pincode; ask for it if the
user gave none. Call find_nearest_ev_charger and present the results with
distance, vendor, charger type and the Google Maps link.`,
		RelevantTools: []string{"find_nearest_ev_charger"},
	},
	intent.BikeRecommendation: {
		Name: "bike_recommendation",
		Instruction: persona + `

Help the user find a bike. Use list_bikes for filter-driven requests and
search_bike when they name a model. Fetch get_bike_details or
get_extended_bike_details before making claims about a specific bike.`,
		RelevantTools: []string{"list_bikes", "search_bike", "get_bike_details", "get_extended_bike_details"},
	},
	intent.BikeComparison: {
		Name: "bike_comparison",
		Instruction: persona + `

Compare the bikes the user names. Resolve each to its catalog ID with
search_bike if needed, then call get_bike_comparison and summarize the
differences.`,
		RelevantTools: []string{"search_bike", "get_bike_details", "get_bike_comparison"},
	},
}

// For returns the skill for an intent. Unknown intents route to the
// general_qna skill so the bot always has an instruction to work with.
func For(t intent.Type) Skill {
	if s, ok := registry[t]; ok {
		return s
	}
	return registry[intent.GeneralQnA]
}

// Names lists all registered skill names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, t := range intent.All() {
		names = append(names, registry[t].Name)
	}
	return names
}
