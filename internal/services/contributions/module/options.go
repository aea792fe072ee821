package module

import (
	"editledger/internal/platform/config"
	"editledger/internal/services/contributions/service"
)

// FromConfig reads the contributions settings from config
func FromConfig(cfg config.Conf) service.Config {
	cf := cfg.Prefix("CONTRIB_")
	return service.Config{
		ListHardLimit: cf.MayInt("LIST_HARD_LIMIT", 50),
	}
}
