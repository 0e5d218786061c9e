package settings

import (
	"context"

	"github.com/pkg/errors"
)

// Setting names. The defaults table below must remain a strict superset of
// every name the coordinator reads; no coordinator logic runs before the
// defaults are seeded.
const (
	KeyCurrency     = "currency"
	KeyExchangeRate = "exchangeRate"

	KeySteamAPIKey = "steamApiKey"
	KeyAPIKeyValid = "apiKeyValid"

	KeyNotifyOnUpdate    = "notifyOnUpdate"
	KeyShowUpdatedRibbon = "showUpdatedRibbon"

	KeyMonitorFriendRequests  = "monitorFriendRequests"
	KeyIgnoreGroupInvites     = "ignoreGroupInvites"
	KeyMarkModMessagesAsRead  = "markModerationMessagesAsRead"
	KeyMonitorIncomingOffers  = "monitorIncomingOffers"
	KeyNotifyAboutNewItems    = "notifyAboutNewItems"
	KeyNotifyAboutComments    = "notifyAboutComments"
	KeyNotifyWhenLoggedOut    = "notifyAboutBeingLoggedOut"
	KeyNotifyLoggedOutDiscord = "notifyAboutBeingLoggedOutOnDiscord"
	KeyDiscordWebhookURL      = "discordWebhookUrl"

	KeyNotificationSoundOn = "notificationSoundOn"
	KeyItemPricing         = "itemPricing"
	KeyPricingProvider     = "pricingProvider"

	KeyNumberOfNewItems = "numberOfNewItems"
	KeyNumberOfComments = "numberOfComments"
)

// Defaults returns the full configuration snapshot: every setting name with
// its first-run value. Seeded in full on install; backfilled (missing names
// only) on update.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		KeyCurrency:     "USD",
		KeyExchangeRate: 1.0,

		KeySteamAPIKey: "",
		KeyAPIKeyValid: false,

		KeyNotifyOnUpdate:    false,
		KeyShowUpdatedRibbon: false,

		KeyMonitorFriendRequests:  true,
		KeyIgnoreGroupInvites:     false,
		KeyMarkModMessagesAsRead:  false,
		KeyMonitorIncomingOffers:  true,
		KeyNotifyAboutNewItems:    true,
		KeyNotifyAboutComments:    true,
		KeyNotifyWhenLoggedOut:    false,
		KeyNotifyLoggedOutDiscord: false,
		KeyDiscordWebhookURL:      "",

		KeyNotificationSoundOn: true,
		KeyItemPricing:         true,
		KeyPricingProvider:     "csgotrader",

		KeyNumberOfNewItems: 0.0,
		KeyNumberOfComments: 0.0,
	}
}

// GetBool reads a boolean setting, with ErrSettingNotFound when unset.
func GetBool(ctx context.Context, s Store, key string) (bool, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}

	parsed, ok := value.(bool)
	if !ok {
		return false, errors.Errorf("setting %s is not a bool", key)
	}
	return parsed, nil
}

// GetString reads a string setting, with ErrSettingNotFound when unset.
func GetString(ctx context.Context, s Store, key string) (string, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}

	parsed, ok := value.(string)
	if !ok {
		return "", errors.Errorf("setting %s is not a string", key)
	}
	return parsed, nil
}

// GetFloat64 reads a numeric setting, with ErrSettingNotFound when unset.
// All numeric settings are stored as float64, matching JSON number semantics.
func GetFloat64(ctx context.Context, s Store, key string) (float64, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}

	switch parsed := value.(type) {
	case float64:
		return parsed, nil
	case int:
		return float64(parsed), nil
	default:
		return 0, errors.Errorf("setting %s is not a number", key)
	}
}

// GetInt reads a numeric setting as an int.
func GetInt(ctx context.Context, s Store, key string) (int, error) {
	value, err := GetFloat64(ctx, s, key)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}
