package digestprov

import (
	"sync"

	"github.com/effective-security/xlog"
	"github.com/pkg/errors"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/xdigest", "digestprov")

// DefaultProviderName is the provider used when no configuration
// location is given.
const DefaultProviderName = "SoftCrypto"

// ProviderLoader is interface for loading provider by manufacturer
type ProviderLoader func(cfg TokenConfig) (Provider, error)

var (
	lockLoaders sync.RWMutex
	loaders     = make(map[string]ProviderLoader)
)

// Register provider loader by manufacturer
func Register(manufacturer string, loader ProviderLoader) error {
	lockLoaders.Lock()
	defer lockLoaders.Unlock()

	if _, ok := loaders[manufacturer]; ok {
		return errors.Errorf("already registered: %s", manufacturer)
	}

	loaders[manufacturer] = loader

	return nil
}

// Unregister provider loader by manufacturer
func Unregister(manufacturer string) (ProviderLoader, error) {
	lockLoaders.Lock()
	defer lockLoaders.Unlock()

	if loader, ok := loaders[manufacturer]; ok {
		delete(loaders, manufacturer)
		return loader, nil
	}

	return nil, errors.Errorf("not registered: %s", manufacturer)
}

// Registered returns registered providers
func Registered() []string {
	lockLoaders.RLock()
	defer lockLoaders.RUnlock()

	list := []string{}
	for m := range loaders {
		list = append(list, m)
	}
	return list
}

func registeredLoader(manufacturer string) (ProviderLoader, error) {
	lockLoaders.RLock()
	defer lockLoaders.RUnlock()

	loader, ok := loaders[manufacturer]
	if !ok {
		return nil, errors.Errorf("provider not registered: %s", manufacturer)
	}
	return loader, nil
}

// LoadProvider loads a single provider. With an empty config location
// the default software provider is returned.
func LoadProvider(configLocation string) (Provider, error) {
	if configLocation == "" {
		loader, err := registeredLoader(DefaultProviderName)
		if err != nil {
			return nil, err
		}
		return loader(nil)
	}

	tc, err := LoadTokenConfig(configLocation)
	if err != nil {
		return nil, err
	}

	manufacturer := tc.Manufacturer()
	loader, err := registeredLoader(manufacturer)
	if err != nil {
		return nil, err
	}

	prov, err := loader(tc)
	if err != nil {
		return nil, err
	}

	logger.KV(xlog.INFO,
		"status", "loaded",
		"manufacturer", prov.Manufacturer(),
		"model", prov.Model(),
		"devices", prov.Devices())

	return prov, nil
}
