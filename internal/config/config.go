package config

import "os"

type Config struct {
	DBDriver string
	DBDSN    string

	// SectionsPath points at a JSON collection to load instead of the
	// built-in sample document.
	SectionsPath string
	DocTitle     string

	PrettyLog bool
	Debug     bool
}

func FromEnv() Config {
	return Config{
		DBDriver:     envOr("DB_DRIVER", "sqlite"),
		DBDSN:        envOr("DB_DSN", ""),
		SectionsPath: os.Getenv("SECTIONS_PATH"),
		DocTitle:     envOr("DOC_TITLE", "Sample test"),
		PrettyLog:    envBool("PRETTY_LOG", true),
		Debug:        envBool("DEBUG", false),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
