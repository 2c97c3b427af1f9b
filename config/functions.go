package config

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// densityFunc returns the number of mines that covers percent of a
// width x height board, rounded down.
var densityFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "width", Type: cty.Number},
		{Name: "height", Type: cty.Number},
		{Name: "percent", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		var width, height int
		var percent float64
		if err := gocty.FromCtyValue(args[0], &width); err != nil {
			return cty.UnknownVal(cty.Number), function.NewArgError(0, err)
		}
		if err := gocty.FromCtyValue(args[1], &height); err != nil {
			return cty.UnknownVal(cty.Number), function.NewArgError(1, err)
		}
		if err := gocty.FromCtyValue(args[2], &percent); err != nil {
			return cty.UnknownVal(cty.Number), function.NewArgError(2, err)
		}
		if percent < 0 || percent > 100 {
			return cty.UnknownVal(cty.Number), function.NewArgError(2, fmt.Errorf("percent must be within 0..100, got %g", percent))
		}
		mines := math.Floor(float64(width*height) * percent / 100)
		return cty.NumberIntVal(int64(mines)), nil
	},
})

func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"density": densityFunc,
			"min":     stdlib.MinFunc,
			"max":     stdlib.MaxFunc,
			"floor":   stdlib.FloorFunc,
			"ceil":    stdlib.CeilFunc,
		},
	}
}
