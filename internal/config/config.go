package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/railmap/editor/pkg/core"
)

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage backend settings
type SQLiteConfig struct {
	Path         string        `json:"path" mapstructure:"path"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// StorageConfig selects and configures the persistence backend
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// TerrainConfig describes the elevation image and the planar extent it
// covers. When Geographic is true the bounds are lon/lat degrees and get
// projected to meters before use.
type TerrainConfig struct {
	ImagePath   string  `json:"imagePath" mapstructure:"imagePath"`
	HeightScale float64 `json:"heightScale" mapstructure:"heightScale"`
	Geographic  bool    `json:"geographic" mapstructure:"geographic"`
	MinX        float64 `json:"minX" mapstructure:"minX"`
	MinY        float64 `json:"minY" mapstructure:"minY"`
	MaxX        float64 `json:"maxX" mapstructure:"maxX"`
	MaxY        float64 `json:"maxY" mapstructure:"maxY"`
}

// Bounds returns the configured extent as a core.Bounds.
func (t TerrainConfig) Bounds() core.Bounds {
	return core.Bounds{MinX: t.MinX, MinY: t.MinY, MaxX: t.MaxX, MaxY: t.MaxY}
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./railmaplogs")

	viper.SetDefault("terrain.imagePath", "")
	viper.SetDefault("terrain.heightScale", 0.05)
	viper.SetDefault("terrain.geographic", false)
	viper.SetDefault("terrain.minX", 0.0)
	viper.SetDefault("terrain.minY", 0.0)
	viper.SetDefault("terrain.maxX", 100000.0)
	viper.SetDefault("terrain.maxY", 100000.0)

	viper.SetDefault("curve.segments", 50)

	viper.SetDefault("storage.type", "sqlite")
	viper.SetDefault("storage.memory.outputDir", "./layouts")
	viper.SetDefault("storage.memory.compressOutput", false)
	viper.SetDefault("storage.sqlite.path", "./railmap.db")
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "railmap")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "railmap-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("railmap.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetStorageConfig returns the storage section with durations parsed.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
	}
}

// GetTerrainConfig returns the terrain section.
func GetTerrainConfig() TerrainConfig {
	return TerrainConfig{
		ImagePath:   viper.GetString("terrain.imagePath"),
		HeightScale: viper.GetFloat64("terrain.heightScale"),
		Geographic:  viper.GetBool("terrain.geographic"),
		MinX:        viper.GetFloat64("terrain.minX"),
		MinY:        viper.GetFloat64("terrain.minY"),
		MaxX:        viper.GetFloat64("terrain.maxX"),
		MaxY:        viper.GetFloat64("terrain.maxY"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
