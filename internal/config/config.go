package config

import (
	"os"
	"strconv"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Opening recipe
	LeadInMS         int     // bed at full level before any foreground, ms
	BedAttenuationDB float64 // bed level under speech, dB
	PostRollMS       int     // attenuated bed after speech ends, ms
	FadeOutMS        int     // final ramp to silence, ms
	EffectGainDB     float64 // gain delta on the transition effect clip

	// Output
	OutputDir string
}

// Load reads configuration from environment variables with sane defaults.
// The defaults are the classic opening: 5s lead-in, -20dB bed under speech,
// no post-roll, 5s fade-out.
func Load() Config {
	return Config{
		LeadInMS:         envInt("OPENING_LEAD_IN_MS", 5000),
		BedAttenuationDB: envFloat("OPENING_BED_ATTENUATION_DB", -20),
		PostRollMS:       envInt("OPENING_POST_ROLL_MS", 0),
		FadeOutMS:        envInt("OPENING_FADE_OUT_MS", 5000),
		EffectGainDB:     envFloat("OPENING_EFFECT_GAIN_DB", 0),

		OutputDir: envStr("OPENING_OUTPUT_DIR", "."),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
