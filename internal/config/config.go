//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for hilotools.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for hilotools.
type Config struct {
	// Warehouse is the warehouse location: a SQLite file path or a
	// postgres:// connection string.
	Warehouse string `mapstructure:"warehouse"`

	// ProcessedDir is where staging datasets are written and read.
	ProcessedDir string `mapstructure:"processed_dir"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Sources holds the raw export file locations for ingestion.
	Sources SourcesConfig `mapstructure:"sources"`

	// Columns holds the raw-to-staging column rename maps per dataset.
	Columns ColumnsConfig `mapstructure:"columns"`

	// Analytics holds configuration for the analytics subcommand.
	Analytics AnalyticsConfig `mapstructure:"analytics"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`
}

// SourcesConfig holds the raw spreadsheet export locations.
type SourcesConfig struct {
	Sales     string `mapstructure:"sales"`
	Inventory string `mapstructure:"inventory"`
	HR        string `mapstructure:"hr"`
}

// ColumnsConfig maps raw export headers to staging column names.
// Raw headers vary between export tools, so the maps live in config
// rather than code.
type ColumnsConfig struct {
	Sales     map[string]string `mapstructure:"sales"`
	Inventory map[string]string `mapstructure:"inventory"`
	HR        map[string]string `mapstructure:"hr"`
}

// AnalyticsConfig holds configuration for the analytics subcommand.
type AnalyticsConfig struct {
	// Components is the number of principal components to compute.
	Components int `mapstructure:"components"`

	// OutDir is where the analytics CSV outputs are written.
	OutDir string `mapstructure:"out_dir"`
}

// SeedConfig holds configuration for demo data generation.
type SeedConfig struct {
	// Dir is where the generated raw exports are written.
	Dir string `mapstructure:"dir"`

	// Sales, Inventory and HR are the row counts to generate.
	Sales     int `mapstructure:"sales"`
	Inventory int `mapstructure:"inventory"`
	HR        int `mapstructure:"hr"`

	// RandomSeed makes generation reproducible when non-zero.
	RandomSeed uint64 `mapstructure:"random_seed"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Warehouse:    filepath.Join("data", "warehouse", "warehouse.db"),
		ProcessedDir: filepath.Join("data", "processed"),
		LogLevel:     "info",
		Sources: SourcesConfig{
			Sales:     filepath.Join("data", "raw", "ventas.xlsx"),
			Inventory: filepath.Join("data", "raw", "inventario.xlsx"),
			HR:        filepath.Join("data", "raw", "rrhh.xlsx"),
		},
		Columns: ColumnsConfig{
			Sales: map[string]string{
				"ID_VENTA":        "sale_id",
				"FECHA_VENTA":     "sale_date",
				"ID_CLIENTE":      "customer_id",
				"ID_PRODUCTO":     "product_id",
				"ID_TIENDA":       "store_id",
				"CANTIDAD":        "quantity",
				"PRECIO_UNITARIO": "unit_price",
				"DESCUENTO_PCT":   "discount_percent",
				"IMPORTE_VENTA":   "sales_amount",
				"MARGEN":          "profit_margin",
			},
			Inventory: map[string]string{
				"ID_INVENTARIO":    "inventory_id",
				"FECHA_FOTO":       "snapshot_date",
				"CODIGO_PRODUCTO":  "product_code",
				"ID_CATEGORIA":     "category_id",
				"ID_ALMACEN":       "warehouse_id",
				"STOCK":            "stock_qty",
				"NIVEL_REPOSICION": "reorder_level",
				"COSTE_UNITARIO":   "unit_cost",
				"VALOR_TOTAL":      "total_value",
			},
			HR: map[string]string{
				"ID_EMPLEADO":     "employee_id",
				"ID_DEPARTAMENTO": "department_id",
				"SALARIO":         "salary",
				"BONUS":           "bonus",
				"FECHA_REVISION":  "review_date",
				"PUNTUACION":      "performance_score",
				"HORAS":           "hours_worked",
				"HORAS_EXTRA":     "overtime_hours",
			},
		},
		Analytics: AnalyticsConfig{
			Components: 5,
			OutDir:     "report",
		},
		Seed: SeedConfig{
			Dir:       filepath.Join("data", "raw"),
			Sales:     5000,
			Inventory: 1200,
			HR:        400,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./hilotools.yaml
// 3. ~/.config/hilotools/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("hilotools")
	v.SetConfigType("yaml")

	// Add config paths
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "hilotools"))
	}

	// Use specific config file if provided
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Unmarshal config file values
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.ProcessedDir == "" {
		return fmt.Errorf("processed_dir is required")
	}
	return nil
}

// ValidateIngest checks configuration required for the ingest command.
func (c *Config) ValidateIngest() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Sources.Sales == "" || c.Sources.Inventory == "" || c.Sources.HR == "" {
		return fmt.Errorf("sources.sales, sources.inventory and sources.hr are required")
	}
	return nil
}

// ValidateModel checks configuration required for the model command.
func (c *Config) ValidateModel() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Warehouse == "" {
		return fmt.Errorf("warehouse location is required")
	}
	return nil
}

// ValidateAnalytics checks configuration required for the analytics command.
func (c *Config) ValidateAnalytics() error {
	if c.Warehouse == "" {
		return fmt.Errorf("warehouse location is required")
	}
	if c.Analytics.OutDir == "" {
		return fmt.Errorf("analytics.out_dir is required")
	}
	if c.Analytics.Components < 1 {
		return fmt.Errorf("analytics.components must be at least 1")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if c.Seed.Dir == "" {
		return fmt.Errorf("seed.dir is required")
	}
	if c.Seed.Sales < 1 || c.Seed.Inventory < 1 || c.Seed.HR < 1 {
		return fmt.Errorf("seed row counts must be at least 1")
	}
	return nil
}
