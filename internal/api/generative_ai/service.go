package generativeAI

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/munishbansal2000/layla-sub001/internal/types"
)

// AIClient is the Gemini-backed generation collaborator. Its output is raw
// model text; the pipeline's repair stage is responsible for recovering a
// structured itinerary from it.
type AIClient struct {
	client *genai.Client
	model  string
}

func NewAIClient(ctx context.Context, model string) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &AIClient{client: client, model: model}, nil
}

// Generate asks the model for a day-by-day itinerary and returns the raw
// text. It never pre-parses: malformed output is the repair stage's problem.
func (ai *AIClient) Generate(ctx context.Context, trip types.TripContext) (types.GenerationResult, error) {
	prompt := itineraryPrompt(trip)
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.7),
		ResponseMIMEType: "application/json",
	}
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return types.GenerationResult{}, fmt.Errorf("failed to generate itinerary: %w", err)
	}
	return types.GenerationResult{RawText: result.Text()}, nil
}

func itineraryPrompt(trip types.TripContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan a %d-day trip to %s starting %s.", trip.NumDays, trip.Destination, trip.StartDate)
	if len(trip.Cities) > 0 {
		fmt.Fprintf(&b, " Cities in order: %s.", strings.Join(trip.Cities, ", "))
	}
	b.WriteString(`
Respond with a single JSON object:
{
  "destination": "...",
  "country": "...",
  "days": [
    {
      "date": "YYYY-MM-DD",
      "city": "...",
      "title": "...",
      "slots": [
        {
          "slot_type": "morning|lunch|afternoon|dinner|evening",
          "time_range": {"start": "HH:MM", "end": "HH:MM"},
          "options": [
            {
              "activity": {
                "name": "...",
                "description": "...",
                "category": "...",
                "duration_minutes": 90,
                "place": {"name": "...", "coordinates": {"latitude": 0, "longitude": 0}, "neighborhood": "..."},
                "tags": ["..."]
              }
            }
          ]
        }
      ]
    }
  ],
  "general_tips": ["..."],
  "estimated_budget": "..."
}
Use real venues with real coordinates. Keep consecutive activities within walking distance where possible.`)
	return b.String()
}
