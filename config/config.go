package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Generator struct {
		Model   string        `mapstructure:"model"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"generator"`
	Pipeline    PipelineConfig    `mapstructure:"pipeline"`
	Constraints ConstraintsConfig `mapstructure:"constraints"`
}

// PipelineConfig holds the scheduling heuristics of the construction
// pipeline. All values are overridable; the embedded config carries the
// defaults the product was tuned with.
type PipelineConfig struct {
	SearchBatchSize        int           `mapstructure:"searchBatchSize"`
	SearchBatchPause       time.Duration `mapstructure:"searchBatchPause"`
	SearchRadiusMeters     float64       `mapstructure:"searchRadiusMeters"`
	MaxReplacementOptions  int           `mapstructure:"maxReplacementOptions"`
	ArrivalBufferMinutes   int           `mapstructure:"arrivalBufferMinutes"`   // immigration/baggage
	ArrivalBlockMinutes    int           `mapstructure:"arrivalBlockMinutes"`    // day-1 pruning window
	DepartureBufferMinutes int           `mapstructure:"departureBufferMinutes"` // airport lead time
	InterCityDefaultStart  string        `mapstructure:"interCityDefaultStart"`
	InterCityEarliestStart string        `mapstructure:"interCityEarliestStart"`
	AnchorLeadMinutes      int           `mapstructure:"anchorLeadMinutes"`  // arrive before destination anchor
	AnchorTrailMinutes     int           `mapstructure:"anchorTrailMinutes"` // depart after origin anchor
	AnchorMatchThreshold   int           `mapstructure:"anchorMatchThreshold"`
}

// ConstraintsConfig holds the constraint-engine thresholds.
type ConstraintsConfig struct {
	WalkingDistanceMeters    float64 `mapstructure:"walkingDistanceMeters"`
	RejectDistanceKm         float64 `mapstructure:"rejectDistanceKm"`
	WarnDistanceKm           float64 `mapstructure:"warnDistanceKm"`
	TravelBudgetMinutes      int     `mapstructure:"travelBudgetMinutes"`
	PacingWarnMinutes        int     `mapstructure:"pacingWarnMinutes"`
	DurationToleranceMinutes int     `mapstructure:"durationToleranceMinutes"`
	CommuteMinutesPerFiveKm  int     `mapstructure:"commuteMinutesPerFiveKm"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}

// Default returns the embedded defaults without touching the filesystem.
// Services and tests that need thresholds but not the full viper lifecycle
// construct from here.
func Default() Config {
	var cfg Config
	cfg.Mode = "development"
	cfg.Server.HTTPPort = "8080"
	cfg.Server.Timeout = 60 * time.Second
	cfg.Generator.Model = "gemini-2.0-flash"
	cfg.Generator.Timeout = 90 * time.Second
	cfg.Pipeline = PipelineConfig{
		SearchBatchSize:        5,
		SearchBatchPause:       200 * time.Millisecond,
		SearchRadiusMeters:     1000,
		MaxReplacementOptions:  3,
		ArrivalBufferMinutes:   30,
		ArrivalBlockMinutes:    120,
		DepartureBufferMinutes: 180,
		InterCityDefaultStart:  "10:00",
		InterCityEarliestStart: "07:00",
		AnchorLeadMinutes:      60,
		AnchorTrailMinutes:     30,
		AnchorMatchThreshold:   50,
	}
	cfg.Constraints = ConstraintsConfig{
		WalkingDistanceMeters:    1500,
		RejectDistanceKm:         30,
		WarnDistanceKm:           10,
		TravelBudgetMinutes:      180,
		PacingWarnMinutes:        600,
		DurationToleranceMinutes: 30,
		CommuteMinutesPerFiveKm:  20,
	}
	return cfg
}
