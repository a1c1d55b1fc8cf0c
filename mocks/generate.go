package mocks

//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/tickerlab/stratbench/internal/strategy Strategy
//go:generate mockgen -destination=./mock_loader.go -package=mocks github.com/tickerlab/stratbench/internal/datasource Loader
