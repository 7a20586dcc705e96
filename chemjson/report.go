package chemjson

import (
	"encoding/json"
	"io"
)

//Information to be passed back to the calling program.
type Report struct {
	RunID      string             `json:"run_id,omitempty"`
	Energy     float64            `json:"energy"`
	Terms      map[string]float64 `json:"terms,omitempty"`
	Gradient   [][3]float64       `json:"gradient,omitempty"`
	GradNorm   float64            `json:"grad_norm,omitempty"`
	Energies   []float64          `json:"energies,omitempty"` //one per conformer or scan point
	Angles     []float64          `json:"angles,omitempty"`   //scan angles, in degrees
	Iterations int                `json:"iterations,omitempty"`
	Status     string             `json:"status,omitempty"`
}

//Send Marshals the report and writes to out, returns an error or nil
func (J *Report) Send(out io.Writer) error {
	enc := json.NewEncoder(out)
	if err := enc.Encode(J); err != nil {
		return NewError("encode", "Report.Send", err)
	}
	return nil
}
