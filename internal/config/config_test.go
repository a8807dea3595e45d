package config

import "testing"

func TestFromEnvPrefersFlagOverEnvOverDefault(t *testing.T) {
	t.Setenv("ATLASCORE_TEST_VAR", "from-env")

	empty := ""
	if got := fromEnv(&empty, "ATLASCORE_TEST_VAR", "from-default"); got != "from-env" {
		t.Fatalf("expected env var to win over an unset flag, got %q", got)
	}

	set := "from-flag"
	if got := fromEnv(&set, "ATLASCORE_TEST_VAR", "from-default"); got != "from-flag" {
		t.Fatalf("expected a set flag to win over the env var, got %q", got)
	}

	t.Setenv("ATLASCORE_TEST_VAR_UNSET", "")
	if got := fromEnv(&empty, "ATLASCORE_TEST_VAR_UNSET", "from-default"); got != "from-default" {
		t.Fatalf("expected the default when neither flag nor env is set, got %q", got)
	}
}

func TestLoadResolvesDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ListenAddr == "" || cfg.DatabaseURL == "" || cfg.RulesetID == "" {
		t.Fatalf("expected every field to resolve to a non-empty default, got %+v", cfg)
	}
}
