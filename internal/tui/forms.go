package tui

import (
	"github.com/charmbracelet/huh"
)

func CreateStoreForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Store File").
				Description("JSON file holding saved templates and the access token").
				Value(&values.StorePath).
				Placeholder("~/.see").
				Validate(ValidateRequired),
		),
	).WithTheme(GetTheme())
}

func CreateHTTPForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("timeout").
				Title("Download Timeout").
				Description("Upper bound for one archive download (e.g., 30s, 10m)").
				Value(&values.HTTPTimeout).
				Placeholder("10m").
				Validate(ValidateDuration),

			huh.NewInput().
				Key("user_agent").
				Title("User Agent").
				Description("User-Agent header sent with archive requests").
				Value(&values.HTTPUserAgent),
		),
	).WithTheme(GetTheme())
}

func CreateCacheForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("enabled").
				Title("Enable Cache").
				Description("Keep downloaded archives for offline pulls").
				Value(&values.CacheEnabled),

			huh.NewInput().
				Key("ttl").
				Title("Cache TTL").
				Description("How long cached archives stay valid (e.g., 24h, 168h)").
				Value(&values.CacheTTL).
				Placeholder("168h").
				Validate(ValidateDuration),

			huh.NewInput().
				Key("directory").
				Title("Cache Directory").
				Description("Where the archive cache is stored").
				Value(&values.CacheDirectory),

			huh.NewInput().
				Key("max_size").
				Title("Max Archive Size").
				Description("Larger archives are extracted but not cached").
				Value(&values.CacheMaxSize).
				Placeholder("64MB").
				Validate(ValidateSize),
		),
	).WithTheme(GetTheme())
}

func CreatePromptForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("accessible").
				Title("Accessible Mode").
				Description("Plain numbered prompts for screen readers").
				Value(&values.PromptAccessible),
		),
	).WithTheme(GetTheme())
}

func CreateLoggingForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&values.LogLevel).
				Validate(ValidateLogLevel),

			huh.NewSelect[string]().
				Key("format").
				Title("Log Format").
				Options(huh.NewOptions("pretty", "json")...).
				Value(&values.LogFormat).
				Validate(ValidateLogFormat),
		),
	).WithTheme(GetTheme())
}

func GetFormForCategory(category string, values *ConfigValues) *huh.Form {
	switch category {
	case "store":
		return CreateStoreForm(values)
	case "http":
		return CreateHTTPForm(values)
	case "cache":
		return CreateCacheForm(values)
	case "prompt":
		return CreatePromptForm(values)
	case "logging":
		return CreateLoggingForm(values)
	default:
		return nil
	}
}
