package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Package config provides configuration management for the passport photo
// pipeline. Values here are app-level settings; numeric pipeline policies
// live in photo.TuningConfig and are passed explicitly into each operation.

// Config holds all persisted configuration data.
type Config struct {
	APIKey          string  `json:"api_key"`          // normalization service key
	Endpoint        string  `json:"endpoint"`         // normalization service URL
	BackgroundColor string  `json:"background_color"` // target background, hex
	Attire          string  `json:"attire"`           // optional clothing descriptor
	Quality         float64 `json:"quality"`          // intermediate encode quality 0.0-1.0
	OutputDir       string  `json:"output_dir"`       // where sheets are written
}

var (
	instance *Config
	once     sync.Once
)

// GetConfig returns the singleton instance of Config.
func GetConfig() *Config {
	once.Do(func() {
		instance = &Config{}
		if err := instance.loadFromFile(GetFilename()); err != nil {
			fmt.Println("Error loading config:", err)
			instance.setDefaultValues()
		}
	})
	return instance
}

// GetFilename returns the path to the user's config file.
func GetFilename() string {
	return filepath.Join(GetPath(), "config.json")
}

// GetPath returns the path to the user's config directory.
func GetPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting user home directory: %v", err)
	}
	return filepath.Join(homeDir, "."+strings.ToLower(AppName))
}

// loadFromFile loads configuration from the specified file.
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, c); err != nil {
		return err
	}

	c.fillMissing()
	return nil
}

// setDefaultValues sets default values for the configuration.
func (c *Config) setDefaultValues() {
	c.APIKey = ""
	c.Endpoint = DefaultEndpoint
	c.BackgroundColor = DefaultBackgroundColor
	c.Attire = ""
	c.Quality = DefaultQuality
	c.OutputDir = ""
}

// fillMissing backfills defaults for fields absent from an older config file.
func (c *Config) fillMissing() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.BackgroundColor == "" {
		c.BackgroundColor = DefaultBackgroundColor
	}
	if c.Quality <= 0 || c.Quality > 1 {
		c.Quality = DefaultQuality
	}
}

// Save saves the current configuration to the user's config file.
func (c *Config) Save() {
	cfgFile := GetFilename()
	if err := os.MkdirAll(filepath.Dir(cfgFile), 0700); err != nil {
		log.Fatalf("Error creating config directory: %v", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding config data: %v", err)
	}

	if err := os.WriteFile(cfgFile, data, 0644); err != nil {
		log.Fatalf("Error writing config file: %v", err)
	}
}
