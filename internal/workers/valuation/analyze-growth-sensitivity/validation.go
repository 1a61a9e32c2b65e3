// internal/workers/valuation/analyze-growth-sensitivity/validation.go
package analyzegrowthsensitivity

import (
	"artvaluation-workers/internal/common/validation"
	"artvaluation-workers/internal/workers/valuation/jobinput"
)

var inputSchema = validation.MustCompile(jobinput.Schema(nil, map[string]string{
	"artistId":    `{"type": "string", "maxLength": 128}`,
	"assumptions": jobinput.AssumptionsSchema,
	"scenarios":   jobinput.ScenariosSchema,
}))

func GetInputSchema() *validation.Schema {
	return inputSchema
}
