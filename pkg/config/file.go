package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batterybar/batterybar/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		AllowNonRootAccess: ptr.To(false),
		Headless:           ptr.To(false),
		Speak:              ptr.To(true),
		Notify:             ptr.To(true),
	}
)

var _ Config = &File{}

// File is a Config stored as a JSON file. Unset fields fall back to
// defaults.
type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	return &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}
}

// RawFileConfig is the on-disk layout.
type RawFileConfig struct {
	AllowNonRootAccess *bool `json:"allowNonRootAccess,omitempty"`
	Headless           *bool `json:"headless,omitempty"`
	Speak              *bool `json:"speak,omitempty"`
	Notify             *bool `json:"notify,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	return &RawFileConfig{
		AllowNonRootAccess: ptr.To(c.AllowNonRootAccess()),
		Headless:           ptr.To(c.Headless()),
		Speak:              ptr.To(c.Speak()),
		Notify:             ptr.To(c.Notify()),
	}, nil
}

// getBool and setBool check f.c under the lock, since Load replaces it.
func (f *File) getBool(get func(*RawFileConfig) *bool) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		panic("config is nil")
	}

	if v := get(f.c); v != nil {
		return *v
	}
	return *get(defaultFileConfig)
}

func (f *File) setBool(set func(*RawFileConfig), name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.c == nil {
		panic("config is nil")
	}
	set(f.c)
	logrus.WithField("key", name).Trace("config updated")
}

func (f *File) AllowNonRootAccess() bool {
	return f.getBool(func(c *RawFileConfig) *bool { return c.AllowNonRootAccess })
}

func (f *File) Headless() bool {
	return f.getBool(func(c *RawFileConfig) *bool { return c.Headless })
}

func (f *File) Speak() bool {
	return f.getBool(func(c *RawFileConfig) *bool { return c.Speak })
}

func (f *File) Notify() bool {
	return f.getBool(func(c *RawFileConfig) *bool { return c.Notify })
}

func (f *File) SetAllowNonRootAccess(b bool) {
	f.setBool(func(c *RawFileConfig) { c.AllowNonRootAccess = &b }, "allowNonRootAccess")
}

func (f *File) SetHeadless(b bool) {
	f.setBool(func(c *RawFileConfig) { c.Headless = &b }, "headless")
}

func (f *File) SetSpeak(b bool) {
	f.setBool(func(c *RawFileConfig) { c.Speak = &b }, "speak")
}

func (f *File) SetNotify(b bool) {
	f.setBool(func(c *RawFileConfig) { c.Notify = &b }, "notify")
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	return logrus.Fields{
		"allowNonRootAccess": f.AllowNonRootAccess(),
		"headless":           f.Headless(),
		"speak":              f.Speak(),
		"notify":             f.Notify(),
	}
}
