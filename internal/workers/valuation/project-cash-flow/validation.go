// internal/workers/valuation/project-cash-flow/validation.go
package projectcashflow

import (
	"artvaluation-workers/internal/common/validation"
	"artvaluation-workers/internal/workers/valuation/jobinput"
)

var inputSchema = validation.MustCompile(jobinput.Schema(nil, map[string]string{
	"artistId":    `{"type": "string", "maxLength": 128}`,
	"assumptions": jobinput.AssumptionsSchema,
}))

func GetInputSchema() *validation.Schema {
	return inputSchema
}
