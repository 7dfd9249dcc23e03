package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FieldAmount is a per-currency amount override in a plugin configuration.
type FieldAmount struct {
	Number       string `mapstructure:"number"`
	CurrencyCode string `mapstructure:"currency_code"`
}

// ShippingMethodConfig configures one currency-aware shipping method.
type ShippingMethodConfig struct {
	ID               string                 `mapstructure:"id" validate:"required"`
	Type             string                 `mapstructure:"type" validate:"oneof=flat_rate flat_rate_per_item"`
	Service          string                 `mapstructure:"service"`
	Amount           string                 `mapstructure:"amount" validate:"required,numeric"`
	CurrencyCode     string                 `mapstructure:"currency_code" validate:"required,len=3"`
	Fields           map[string]FieldAmount `mapstructure:"fields"`
	UseMulticurrency bool                   `mapstructure:"use_multicurrency"`
}

// FeeConfig configures a fixed-amount fee added to draft orders.
type FeeConfig struct {
	ID               string                 `mapstructure:"id" validate:"required"`
	Label            string                 `mapstructure:"label"`
	Target           string                 `mapstructure:"target" validate:"omitempty,oneof=order order_item"`
	Amount           string                 `mapstructure:"amount" validate:"required,numeric"`
	CurrencyCode     string                 `mapstructure:"currency_code" validate:"required,len=3"`
	Fields           map[string]FieldAmount `mapstructure:"fields"`
	UseMulticurrency bool                   `mapstructure:"use_multicurrency"`
}

// OrderTotalConditionConfig restricts a promotion to orders whose total compares to Amount.
type OrderTotalConditionConfig struct {
	Operator      string                 `mapstructure:"operator" validate:"oneof=>= > <= < =="`
	Amount        string                 `mapstructure:"amount" validate:"required,numeric"`
	CurrencyCode  string                 `mapstructure:"currency_code" validate:"required,len=3"`
	Fields        map[string]FieldAmount `mapstructure:"fields"`
	Autocalculate bool                   `mapstructure:"autocalculate"`
}

// PromotionConfig configures a fixed-amount-off promotion.
type PromotionConfig struct {
	ID               string                     `mapstructure:"id" validate:"required"`
	Target           string                     `mapstructure:"target" validate:"omitempty,oneof=order order_item"`
	Amount           string                     `mapstructure:"amount" validate:"required,numeric"`
	CurrencyCode     string                     `mapstructure:"currency_code" validate:"required,len=3"`
	Fields           map[string]FieldAmount     `mapstructure:"fields"`
	UseMulticurrency bool                       `mapstructure:"use_multicurrency"`
	Condition        *OrderTotalConditionConfig `mapstructure:"condition"`
}

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string `validate:"required"`
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string `validate:"required"`

	CurrencyMapping      string `validate:"oneof=store cookie lang geo"`
	GeoProvider          string `validate:"oneof=header none"`
	GeoCountryHeader     string
	DefaultCurrency      string `validate:"required,len=3,uppercase"`
	ExchangeRateProvider string `validate:"omitempty,oneof=manual exchange_rate_ecb exchange_rate_fixer exchange_rate_fixer_paid"`
	CookieName           string
	Matrix               map[string]string
	DomicileCurrency     bool
	MatrixLogic          string `validate:"oneof=country currency"`
	PriceSource          string `validate:"oneof=auto field combo"`
	UseCrossSync         bool
	StrictCurrencies     bool
	AdminPathPrefix      string
	CartCookieName       string
	StoreCurrencies      map[string]string
	Languages            []string

	ExchangeAPIKey         string
	ExchangeImportSchedule string
	RateCacheTTL           time.Duration
	RateLimit              string `validate:"required"`

	ShippingMethods []ShippingMethodConfig `validate:"dive"`
	Fees            []FeeConfig            `validate:"dive"`
	Promotions      []PromotionConfig      `validate:"dive"`
}

// LoadConfig loads configuration from environment variables, a .env file and an optional
// CONFIG_FILE (yaml or json). Map values given through the environment are JSON objects.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("CURRENCY_MAPPING", string(domain.MappingStore))
	v.SetDefault("CURRENCY_GEO", "header")
	v.SetDefault("GEO_COUNTRY_HEADER", "CF-IPCountry")
	v.SetDefault("CURRENCY_DEFAULT", "USD")
	v.SetDefault("CURRENCY_EXCHANGE_RATES", domain.ProviderManual)
	v.SetDefault("CURRENCY_COOKIE_NAME", domain.DefaultCookieName)
	v.SetDefault("CURRENCY_DOMICILE", false)
	v.SetDefault("CURRENCY_MATRIX_LOGIC", string(domain.MatrixLogicCountry))
	v.SetDefault("CURRENCY_SOURCE", string(domain.PriceSourceAuto))
	v.SetDefault("USE_CROSS_SYNC", false)
	v.SetDefault("STRICT_CURRENCIES", false)
	v.SetDefault("ADMIN_PATH_PREFIX", "/api/v1/admin")
	v.SetDefault("CART_COOKIE_NAME", "commerce_cart")
	v.SetDefault("LANGUAGES", "en")
	v.SetDefault("EXCHANGE_API_KEY", "")
	v.SetDefault("EXCHANGE_IMPORT_SCHEDULE", "0 0 3 * * *")
	v.SetDefault("RATE_CACHE_TTL", "10m")
	v.SetDefault("RATE_LIMIT", "100-M")

	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = v.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")

	cfg.CurrencyMapping = v.GetString("CURRENCY_MAPPING")
	cfg.GeoProvider = v.GetString("CURRENCY_GEO")
	cfg.GeoCountryHeader = v.GetString("GEO_COUNTRY_HEADER")
	cfg.DefaultCurrency = strings.ToUpper(v.GetString("CURRENCY_DEFAULT"))
	cfg.ExchangeRateProvider = v.GetString("CURRENCY_EXCHANGE_RATES")
	cfg.CookieName = v.GetString("CURRENCY_COOKIE_NAME")
	cfg.Matrix = v.GetStringMapString("CURRENCY_MATRIX")
	cfg.DomicileCurrency = v.GetBool("CURRENCY_DOMICILE")
	cfg.MatrixLogic = v.GetString("CURRENCY_MATRIX_LOGIC")
	cfg.PriceSource = v.GetString("CURRENCY_SOURCE")
	cfg.UseCrossSync = v.GetBool("USE_CROSS_SYNC")
	cfg.StrictCurrencies = v.GetBool("STRICT_CURRENCIES")
	cfg.AdminPathPrefix = v.GetString("ADMIN_PATH_PREFIX")
	cfg.CartCookieName = v.GetString("CART_COOKIE_NAME")
	cfg.StoreCurrencies = v.GetStringMapString("STORE_CURRENCIES")
	cfg.Languages = splitList(v.GetString("LANGUAGES"))

	cfg.ExchangeAPIKey = v.GetString("EXCHANGE_API_KEY")
	if cfg.ExchangeAPIKey == "" && strings.HasPrefix(cfg.ExchangeRateProvider, "exchange_rate_fixer") {
		log.Println("Warning: EXCHANGE_API_KEY not set. Fixer imports will fail.")
	}
	cfg.ExchangeImportSchedule = v.GetString("EXCHANGE_IMPORT_SCHEDULE")

	cacheTTLStr := v.GetString("RATE_CACHE_TTL")
	cacheTTL, err := time.ParseDuration(cacheTTLStr)
	if err != nil {
		cacheTTL = 10 * time.Minute
		log.Printf("Warning: Invalid value for RATE_CACHE_TTL ('%s'). Defaulting to %s.\n", cacheTTLStr, cacheTTL.String())
	}
	cfg.RateCacheTTL = cacheTTL
	cfg.RateLimit = v.GetString("RATE_LIMIT")

	if err := v.UnmarshalKey("SHIPPING_METHODS", &cfg.ShippingMethods); err != nil {
		return nil, fmt.Errorf("invalid SHIPPING_METHODS: %w", err)
	}
	if err := v.UnmarshalKey("FEES", &cfg.Fees); err != nil {
		return nil, fmt.Errorf("invalid FEES: %w", err)
	}
	if err := v.UnmarshalKey("PROMOTIONS", &cfg.Promotions); err != nil {
		return nil, fmt.Errorf("invalid PROMOTIONS: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ResolverSettings exposes the currency settings as a read-only snapshot.
func (c *Config) ResolverSettings() domain.ResolverSettings {
	return domain.ResolverSettings{
		Mapping:              domain.MappingStrategy(c.CurrencyMapping),
		GeoProvider:          c.GeoProvider,
		DefaultCurrency:      c.DefaultCurrency,
		ExchangeRateProvider: c.ExchangeRateProvider,
		CookieName:           c.CookieName,
		Matrix: domain.MappingMatrix{
			Entries:          normalizeCodes(c.Matrix),
			DomicileCurrency: c.DomicileCurrency,
			Logic:            domain.MatrixLogic(c.MatrixLogic),
		},
		PriceSource:      domain.PriceSource(c.PriceSource),
		UseCrossSync:     c.UseCrossSync,
		StrictCurrencies: c.StrictCurrencies,
		AdminPathPrefix:  c.AdminPathPrefix,
		StoreCurrencies:  normalizeCodes(c.StoreCurrencies),
	}
}

// normalizeCodes upper-cases currency values. viper lowercases map keys, so two-letter
// keys are stored in both cases to serve country and language lookups.
func normalizeCodes(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = strings.ToUpper(v)
		if len(k) == 2 {
			out[strings.ToUpper(k)] = strings.ToUpper(v)
		}
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
