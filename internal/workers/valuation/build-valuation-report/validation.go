// internal/workers/valuation/build-valuation-report/validation.go
package buildvaluationreport

import (
	"artvaluation-workers/internal/common/validation"
	"artvaluation-workers/internal/workers/valuation/jobinput"
)

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["artistId"],
  "properties": {
    "artistId": {"type": "string", "minLength": 1, "maxLength": 128},
    "scores": ` + jobinput.ScoresSchema + `,
    "ratings": ` + jobinput.RatingsSchema + `,
    "assumptions": ` + jobinput.AssumptionsSchema + `,
    "scenarios": ` + jobinput.ScenariosSchema + `
  },
  "anyOf": [
    {"required": ["scores"]},
    {"required": ["ratings"]}
  ]
}`)

func GetInputSchema() *validation.Schema {
	return inputSchema
}
