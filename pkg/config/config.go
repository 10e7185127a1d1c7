package config

// Config holds the daemon settings. The low battery threshold, the polling
// interval and the alert texts are fixed and not part of it.
type Config interface {
	AllowNonRootAccess() bool
	Headless() bool
	Speak() bool
	Notify() bool

	SetAllowNonRootAccess(bool)
	SetHeadless(bool)
	SetSpeak(bool)
	SetNotify(bool)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
