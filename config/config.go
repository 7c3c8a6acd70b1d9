/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

// Config is a configuration object that may be filled by Loader.
type Config interface {
	SetProviderDefaults(dp DataProvider)
	Set(dp DataProvider) error
}

// KeyPrefixProvider is implemented by Config objects that read their values under a key prefix.
type KeyPrefixProvider interface {
	KeyPrefix() string
}

func dataProviderFor(cfg Config, dp DataProvider) DataProvider {
	if kp, ok := cfg.(KeyPrefixProvider); ok && kp.KeyPrefix() != "" {
		return NewKeyPrefixedDataProvider(dp, kp.KeyPrefix())
	}
	return dp
}
