package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize creates and loads the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	manager, err := Open(configPath)
	if err != nil {
		return err
	}

	globalMu.Lock()
	globalManager = manager
	globalMu.Unlock()
	return nil
}

// Open builds a manager with every Nebula section registered and loaded
// from the file at configPath.
func Open(configPath string) (*Manager, error) {
	store, err := NewFileStore(configPath)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)
	for _, section := range []Section{
		NewLLMSection(),
		NewStorageSection(),
		NewInsightsSection(),
		NewSpeechSection(),
	} {
		if err := manager.RegisterSection(section); err != nil {
			return nil, err
		}
	}

	if err := manager.LoadAll(); err != nil {
		return nil, err
	}
	return manager, nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}

	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

func globalSection[T Section](id string) T {
	var zero T
	if !IsInitialized() {
		return zero
	}
	section, ok := Global().GetSection(id)
	if !ok {
		return zero
	}
	typed, ok := section.(T)
	if !ok {
		return zero
	}
	return typed
}

// GetLLM returns the LLM settings section from global config.
// Returns nil if config is not initialized.
func GetLLM() *LLMSection {
	return globalSection[*LLMSection](SectionIDLLM)
}

// GetStorage returns the storage section, or nil before Initialize.
func GetStorage() *StorageSection {
	return globalSection[*StorageSection](SectionIDStorage)
}

// GetInsights returns the insights section, or nil before Initialize.
func GetInsights() *InsightsSection {
	return globalSection[*InsightsSection](SectionIDInsights)
}

// GetSpeech returns the dictation section, or nil before Initialize.
func GetSpeech() *SpeechSection {
	return globalSection[*SpeechSection](SectionIDSpeech)
}

// Insights returns the configured insight settings, or the defaults before
// Initialize.
func Insights() InsightsSettings {
	if s := GetInsights(); s != nil {
		return s.Snapshot()
	}
	return DefaultInsightsSettings()
}
