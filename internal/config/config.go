package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Provider        string
	Origin          string
	Destination     string
	DefaultCurrency string
	CivilTimezone   string
	MockDataFile    string
	SearchTimeout   time.Duration
	RefreshInterval time.Duration
	ProviderRPS     float64
	ProviderBurst   int
	ListenAddr      string

	JWTSecret   string
	JWTUser     string
	JWTPassword string
	TLSCertFile string
	TLSKeyFile  string

	AmadeusURL              string
	AmadeusClientId         string
	AmadeusClientSecret     string
	DuffelHost              string
	DuffelToken             string
	KiwiHost                string
	KiwiAPIKey              string
	RapidBookingHost        string
	RapidBookingRapidApiKey string
}

// Load reads .env, an optional config file and the environment, in that
// order of increasing precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not read .env: %v", err)
	}

	v := viper.New()

	v.SetDefault("provider", "mock")
	v.SetDefault("origin", "OSL")
	v.SetDefault("destination", "PER")
	v.SetDefault("default_currency", "NOK")
	v.SetDefault("civil_timezone", "Europe/Oslo")
	v.SetDefault("search_timeout", "30s")
	v.SetDefault("refresh_interval", "30s")
	v.SetDefault("provider_rps", 5.0)
	v.SetDefault("provider_burst", 5)
	v.SetDefault("listen_addr", ":8080")

	v.SetDefault("auth_user", "demo")
	v.SetDefault("auth_pass", "demo123")

	v.SetDefault("amadeus_url", "https://test.api.amadeus.com")
	v.SetDefault("duffel_host", "https://api.duffel.com")
	v.SetDefault("kiwi_host", "https://api.tequila.kiwi.com")
	v.SetDefault("rapid_booking_host", "booking-com15.p.rapidapi.com")

	if path := os.Getenv("FLIGHTS_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/flights")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && os.Getenv("FLIGHTS_CONFIG") != "" {
			return nil, fmt.Errorf("read config %s: %w", os.Getenv("FLIGHTS_CONFIG"), err)
		}
		log.Printf("no config file found, using defaults + env vars: %v", err)
	}

	v.AutomaticEnv()

	to, err := time.ParseDuration(v.GetString("search_timeout"))
	if err != nil {
		return nil, fmt.Errorf("bad search_timeout: %w", err)
	}
	ri, err := time.ParseDuration(v.GetString("refresh_interval"))
	if err != nil {
		return nil, fmt.Errorf("bad refresh_interval: %w", err)
	}
	if _, err := time.LoadLocation(v.GetString("civil_timezone")); err != nil {
		return nil, fmt.Errorf("bad civil_timezone: %w", err)
	}

	cfg := &Config{
		Provider:        strings.ToLower(strings.TrimSpace(v.GetString("provider"))),
		Origin:          strings.ToUpper(v.GetString("origin")),
		Destination:     strings.ToUpper(v.GetString("destination")),
		DefaultCurrency: strings.ToUpper(v.GetString("default_currency")),
		CivilTimezone:   v.GetString("civil_timezone"),
		MockDataFile:    v.GetString("mock_data_file"),
		SearchTimeout:   to,
		RefreshInterval: ri,
		ProviderRPS:     v.GetFloat64("provider_rps"),
		ProviderBurst:   v.GetInt("provider_burst"),
		ListenAddr:      v.GetString("listen_addr"),

		JWTSecret:   v.GetString("jwt_secret"),
		JWTUser:     v.GetString("auth_user"),
		JWTPassword: v.GetString("auth_pass"),
		TLSCertFile: os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:  os.Getenv("TLS_KEY_FILE"),

		AmadeusURL:              v.GetString("amadeus_url"),
		AmadeusClientId:         v.GetString("amadeus_client_id"),
		AmadeusClientSecret:     v.GetString("amadeus_client_secret"),
		DuffelHost:              v.GetString("duffel_host"),
		DuffelToken:             v.GetString("duffel_token"),
		KiwiHost:                v.GetString("kiwi_host"),
		KiwiAPIKey:              v.GetString("kiwi_api_key"),
		RapidBookingHost:        v.GetString("rapid_booking_host"),
		RapidBookingRapidApiKey: v.GetString("rapid_booking_rapidapikey"),
	}
	return cfg, nil
}

// Location returns the zone civil timestamps are authored in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.CivilTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
