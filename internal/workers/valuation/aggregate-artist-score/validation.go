// internal/workers/valuation/aggregate-artist-score/validation.go
package aggregateartistscore

import (
	"artvaluation-workers/internal/common/validation"
	"artvaluation-workers/internal/workers/valuation/jobinput"
)

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "properties": {
    "artistId": {"type": "string", "maxLength": 128},
    "scores": ` + jobinput.ScoresSchema + `,
    "ratings": ` + jobinput.RatingsSchema + `
  },
  "anyOf": [
    {"required": ["scores"]},
    {"required": ["ratings"]}
  ]
}`)

func GetInputSchema() *validation.Schema {
	return inputSchema
}
