package permission

import (
	"fmt"

	"github.com/tripdesk/tripdesk/internal/shared/constants"
	"github.com/tripdesk/tripdesk/internal/shared/logger"
)

// InitCurrencyPermissions seeds the policies guarding the currency admin endpoints.
func InitCurrencyPermissions(enforcer *Enforcer, log logger.Interface) error {
	policies := [][]string{
		{constants.RoleAdmin, "/currency/refresh", "POST"},
	}

	for _, policy := range policies {
		if err := enforcer.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w",
				policy[0], policy[1], policy[2], err)
		}
	}

	log.Infow("currency permissions initialized", "policies", len(policies))
	return nil
}

// NewCurrencyEnforcer builds an enforcer with the currency policies loaded.
func NewCurrencyEnforcer(log logger.Interface) (*Enforcer, error) {
	enforcer, err := NewEnforcer(log)
	if err != nil {
		return nil, err
	}
	if err := InitCurrencyPermissions(enforcer, log); err != nil {
		return nil, err
	}
	return enforcer, nil
}
