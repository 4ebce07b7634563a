package app

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"wallet-recon/internal/coingecko"
	"wallet-recon/internal/config"
	"wallet-recon/internal/dataapi"
	"wallet-recon/internal/etherscan"
	"wallet-recon/internal/fees"
	"wallet-recon/internal/service"
	"wallet-recon/internal/timewindow"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newDataAPI() (*dataapi.Client, error) {
	client, err := dataapi.NewClient(dataapi.Options{
		BaseURL:   a.Config.DataAPI.BaseURL,
		UserAgent: a.Config.DataAPI.UserAgent,
		Timeout:   a.Config.DataAPI.RequestTimeout,
		PageDelay: a.Config.DataAPI.PageDelay,
	}, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("data api client: %w", err)
	}
	return client, nil
}

func (a *App) newWindower() *timewindow.Windower {
	return timewindow.New(a.Config.Window.Timezone)
}

// newService wires the pipeline. The fee resolver is only constructed when
// the command needs it, because the Etherscan key is a hard precondition for
// that path and optional for everything else.
func (a *App) newService(withFees bool) (*service.Service, error) {
	data, err := a.newDataAPI()
	if err != nil {
		return nil, err
	}

	var resolver fees.Resolver
	var quote coingecko.QuoteSource
	if withFees {
		scan, err := etherscan.NewClient(etherscan.Options{
			BaseURL: a.Config.Etherscan.BaseURL,
			APIKey:  a.Config.Etherscan.APIKey,
			ChainID: a.Config.Etherscan.ChainID,
			Timeout: a.Config.Etherscan.RequestTimeout,
		}, a.Logger)
		if err != nil {
			return nil, err
		}
		resolver = fees.NewReconciler(scan, a.Config.Etherscan.CallDelay, a.Logger)

		quote = coingecko.NewClient(coingecko.Options{
			BaseURL:  a.Config.Quote.BaseURL,
			TokenID:  a.Config.Quote.TokenID,
			Currency: a.Config.Quote.Currency,
			Fallback: decimal.NewFromFloat(a.Config.Quote.FallbackPrice),
			Timeout:  a.Config.Quote.RequestTimeout,
		}, a.Logger)
	}

	return service.New(data, data, data, resolver, quote, a.newWindower(), a.Logger), nil
}
