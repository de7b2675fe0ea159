package config

import (
	"testing"
	"time"

	"github.com/brcoutinho/volleyscore/internal/domain/match"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.StoreDriver != StoreDriverFile {
		t.Fatalf("unexpected StoreDriver: %q", cfg.StoreDriver)
	}
	if cfg.StateFilePath != "data/scoreboard.json" {
		t.Fatalf("unexpected StateFilePath: %q", cfg.StateFilePath)
	}
	if cfg.UndoDepth != 30 {
		t.Fatalf("unexpected UndoDepth: %d", cfg.UndoDepth)
	}
	if cfg.ReadTimeout != 10*time.Second {
		t.Fatalf("unexpected ReadTimeout: %s", cfg.ReadTimeout)
	}
	if cfg.DefaultMatchConfig != match.DefaultConfig() {
		t.Fatalf("unexpected DefaultMatchConfig: %+v", cfg.DefaultMatchConfig)
	}
}

func TestLoad_StoreDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORE_DRIVER", "redis")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown STORE_DRIVER")
	}
}

func TestLoad_PostgresRequiresDBURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORE_DRIVER", StoreDriverPostgres)
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STORE_DRIVER=postgres without DB_URL")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev/project"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/project" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_MatchConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("MATCH_POINTS_PER_SET", "21")
	t.Setenv("MATCH_MAX_SETS", "3")
	t.Setenv("MATCH_DEUCE_TYPE", "sudden_death_3pt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DefaultMatchConfig.PointsPerSet != 21 {
		t.Fatalf("unexpected PointsPerSet: %d", cfg.DefaultMatchConfig.PointsPerSet)
	}
	if cfg.DefaultMatchConfig.MaxSets != 3 {
		t.Fatalf("unexpected MaxSets: %d", cfg.DefaultMatchConfig.MaxSets)
	}
	if cfg.DefaultMatchConfig.DeuceType != match.DeuceTypeSuddenDeath3 {
		t.Fatalf("unexpected DeuceType: %q", cfg.DefaultMatchConfig.DeuceType)
	}
}

func TestLoad_RejectsInvalidMatchConfig(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("MATCH_MAX_SETS", "4")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for even MATCH_MAX_SETS")
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}
