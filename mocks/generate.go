package mocks

//go:generate mockgen -destination=./mock_datastore.go -package=mocks github.com/rxtech-lab/argo-equity/internal/store DataStore
//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/rxtech-lab/argo-equity/internal/strategy Strategy
