package mocks

//go:generate mockgen -destination=./mock_indicator.go -package=mocks github.com/rxtech-lab/argo-replay/internal/indicator VolatilityEstimator
//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/rxtech-lab/argo-replay/internal/strategy RegimeClassifier,SignalGenerator,PositionSizer
//go:generate mockgen -destination=./mock_trading.go -package=mocks github.com/rxtech-lab/argo-replay/internal/trading TradeManager
//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-replay/internal/backtest/engine/engine_v1/datasource DataSource
