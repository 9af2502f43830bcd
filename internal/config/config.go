package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	apperrors "github.com/stwalsh4118/blockjoin/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Env      string `validate:"required,oneof=development production"`
	Database DatabaseConfig
	Loader   LoaderConfig
	Output   OutputConfig
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string `validate:"required"`
	Port     string `validate:"required"`
	Name     string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`
	PoolMin  int    `validate:"gte=0"`
	PoolMax  int    `validate:"gte=1,gtefield=PoolMin"`
}

// LoaderConfig holds the source dataset paths and reference systems.
// TargetSRID 0 disables reprojection, in which case both sources must
// already declare the same reference system.
type LoaderConfig struct {
	BlocksPath      string `validate:"required"`
	BlocksSRID      int    `validate:"gt=0"`
	BlocksGeoidProp string `validate:"required"`
	ParcelsPath     string `validate:"required"`
	ParcelsSRID     int    `validate:"gt=0"`
	ParcelsIDProp   string `validate:"required"`
	TargetSRID      int    `validate:"gte=0"`
}

// OutputConfig holds the export destination.
type OutputConfig struct {
	Path string `validate:"required"`
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for a
// local development database; only DB_PASSWORD has no default.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "blockjoin")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 1)
	v.SetDefault("DB_POOL_MAX", 4)
	v.SetDefault("BLOCKS_PATH", "data/blocks.geojson")
	v.SetDefault("BLOCKS_SRID", 4269)
	v.SetDefault("BLOCKS_GEOID_PROPERTY", "GEOID10")
	v.SetDefault("PARCELS_PATH", "data/parcels.geojson")
	v.SetDefault("PARCELS_SRID", 2277)
	v.SetDefault("PARCELS_ID_PROPERTY", "parcel_id")
	v.SetDefault("TARGET_SRID", 4326)
	v.SetDefault("OUTPUT_PATH", "parcels_joined_blocks.csv")

	// Bind environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Env: v.GetString("ENV"),
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		Loader: LoaderConfig{
			BlocksPath:      v.GetString("BLOCKS_PATH"),
			BlocksSRID:      v.GetInt("BLOCKS_SRID"),
			BlocksGeoidProp: v.GetString("BLOCKS_GEOID_PROPERTY"),
			ParcelsPath:     v.GetString("PARCELS_PATH"),
			ParcelsSRID:     v.GetInt("PARCELS_SRID"),
			ParcelsIDProp:   v.GetString("PARCELS_ID_PROPERTY"),
			TargetSRID:      v.GetInt("TARGET_SRID"),
		},
		Output: OutputConfig{
			Path: v.GetString("OUTPUT_PATH"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
// Failures wrap ErrInvalidConfig so the CLI exits with the
// configuration error code.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
			fe := fieldErrors[0]
			return fmt.Errorf("%w: %s failed %q validation", apperrors.ErrInvalidConfig, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidConfig, err)
	}
	return nil
}

// EffectiveSRID returns the reference system a dataset's geometries will
// report after load: the target system when reprojection is enabled,
// otherwise the dataset's source system.
func (l LoaderConfig) EffectiveSRID(sourceSRID int) int {
	if l.TargetSRID > 0 {
		return l.TargetSRID
	}
	return sourceSRID
}
