package services_test

import (
	"testing"

	portsrepo "github.com/SscSPs/currency_resolver/internal/core/ports/repositories"
	"github.com/SscSPs/currency_resolver/internal/core/services"
	"github.com/SscSPs/currency_resolver/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func containerConfig() *config.Config {
	return &config.Config{
		DefaultCurrency:      "USD",
		ExchangeRateProvider: "manual",
		AdminPathPrefix:      "/api/v1/admin",
		ShippingMethods: []config.ShippingMethodConfig{
			{ID: "flat", Service: "default", Amount: "5", CurrencyCode: "USD"},
		},
		Fees: []config.FeeConfig{
			{ID: "handling", Target: "order_item", Amount: "1", CurrencyCode: "USD",
				Fields: map[string]config.FieldAmount{"hrk": {Number: "7", CurrencyCode: "hrk"}}},
		},
		Promotions: []config.PromotionConfig{
			{ID: "spring", Amount: "5", CurrencyCode: "USD",
				Condition: &config.OrderTotalConditionConfig{Operator: ">=", Amount: "50", CurrencyCode: "USD"}},
		},
	}
}

func containerRepos() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo:     new(MockCurrencyRepository),
		ExchangeRateRepo: new(MockExchangeRateRepository),
		OrderRepo:        new(MockOrderRepository),
	}
}

func TestNewServiceContainer_WiresOrderProcessing(t *testing.T) {
	container, err := services.NewServiceContainer(containerConfig(), containerRepos(), services.Collaborators{})

	require.NoError(t, err)
	assert.NotNil(t, container.Orders)
	assert.NotNil(t, container.Resolver)
}

func TestNewServiceContainer_RejectsBadAmounts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"fee", func(c *config.Config) { c.Fees[0].Amount = "lots" }, "fee handling"},
		{"promotion", func(c *config.Config) { c.Promotions[0].Amount = "lots" }, "promotion spring"},
		{"condition", func(c *config.Config) { c.Promotions[0].Condition.Amount = "lots" }, "promotion spring condition"},
		{"shipping method", func(c *config.Config) { c.ShippingMethods[0].Amount = "lots" }, "shipping method flat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := containerConfig()
			tt.mutate(cfg)

			_, err := services.NewServiceContainer(cfg, containerRepos(), services.Collaborators{})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
