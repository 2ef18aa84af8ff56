package strategy

import (
	"testing"

	"github.com/rxtech-lab/argo-replay/internal/types"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SlopeRegimeTestSuite struct {
	suite.Suite
}

func TestSlopeRegimeSuite(t *testing.T) {
	suite.Run(t, new(SlopeRegimeTestSuite))
}

func (suite *SlopeRegimeTestSuite) TestInvalidWindows() {
	_, err := NewSlopeRegime(0, 10)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	_, err = NewSlopeRegime(5, -1)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}

func (suite *SlopeRegimeTestSuite) TestFlatUntilLongWindowFull() {
	regime, err := NewSlopeRegime(2, 3)
	suite.Require().NoError(err)
	suite.Equal(types.RegimeFlat, regime.Regime())

	suite.Equal(types.RegimeFlat, regime.Update(1))
	suite.Equal(types.RegimeFlat, regime.Update(2))
	// short (2,3)=2.5 > long (1,2,3)=2
	suite.Equal(types.RegimeUp, regime.Update(3))
	suite.Equal(types.RegimeUp, regime.Regime())
}

func (suite *SlopeRegimeTestSuite) TestTransitions() {
	regime, err := NewSlopeRegime(2, 3)
	suite.Require().NoError(err)

	for _, p := range []float64{1, 2, 3} {
		regime.Update(p)
	}

	// short 3 > long 8/3
	suite.Equal(types.RegimeUp, regime.Update(3))
	// equal means
	suite.Equal(types.RegimeFlat, regime.Update(3))
	// short (3,1)=2 < long (3,3,1)=7/3
	suite.Equal(types.RegimeDown, regime.Update(1))
}

func (suite *SlopeRegimeTestSuite) TestConstantPriceIsFlat() {
	regime, err := NewSlopeRegime(3, 5)
	suite.Require().NoError(err)

	for i := 0; i < 20; i++ {
		suite.Equal(types.RegimeFlat, regime.Update(42.5))
	}
}

func (suite *SlopeRegimeTestSuite) TestDowntrend() {
	regime, err := NewSlopeRegime(2, 4)
	suite.Require().NoError(err)

	var last types.Regime
	for p := 100.0; p > 80; p-- {
		last = regime.Update(p)
	}

	suite.Equal(types.RegimeDown, last)
}
