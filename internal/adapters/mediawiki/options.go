package mediawiki

import (
	"editledger/internal/platform/config"
)

// OptionsFromConfig reads client settings from config
func OptionsFromConfig(cfg config.Conf) Options {
	mf := cfg.Prefix("MEDIAWIKI_")
	return Options{
		BaseTemplate: mf.MayString("BASE_TEMPLATE", baseTemplateDefault),
		UserAgent:    mf.MayString("USER_AGENT", defaultUA),
		Timeout:      mf.MayDuration("TIMEOUT", defaultTimeout),
		MaxRetries:   mf.MayInt("MAX_RETRIES", defaultMaxRetry),
		RetryBase:    mf.MayDuration("RETRY_BASE", defaultRetryBase),
	}
}
