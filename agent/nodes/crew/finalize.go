package crewnode

import (
	"fmt"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

func Finalize(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	return GraphOutput{Result: in.Result}, nil
}
