package trading

import (
	"testing"

	"github.com/rxtech-lab/argo-replay/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ExitParamsTestSuite struct {
	suite.Suite
}

func TestExitParamsSuite(t *testing.T) {
	suite.Run(t, new(ExitParamsTestSuite))
}

func (suite *ExitParamsTestSuite) TestDefaults() {
	params := DefaultExitParams()

	suite.Equal(15.0, params.SLMult)
	suite.Equal(60.0, params.TPMult)
	suite.Equal(0.5, params.BreakevenProgress)
	suite.Equal(3.0, params.TrailingStepMult)
	suite.NoError(params.Validate())
}

func (suite *ExitParamsTestSuite) TestValidate() {
	tests := []struct {
		name   string
		modify func(p *ExitParams)
	}{
		{name: "zero stop multiple", modify: func(p *ExitParams) { p.SLMult = 0 }},
		{name: "negative target multiple", modify: func(p *ExitParams) { p.TPMult = -1 }},
		{name: "breakeven above one", modify: func(p *ExitParams) { p.BreakevenProgress = 1.5 }},
		{name: "negative breakeven", modify: func(p *ExitParams) { p.BreakevenProgress = -0.1 }},
		{name: "zero trailing step", modify: func(p *ExitParams) { p.TrailingStepMult = 0 }},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			params := DefaultExitParams()
			tc.modify(&params)

			err := params.Validate()
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
		})
	}
}

func (suite *ExitParamsTestSuite) TestBreakevenBounds() {
	params := DefaultExitParams()

	params.BreakevenProgress = 0
	suite.NoError(params.Validate())

	params.BreakevenProgress = 1
	suite.NoError(params.Validate())
}
