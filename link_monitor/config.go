package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/storskegg/linkscope/internal/command"
	"github.com/storskegg/linkscope/internal/link"
)

// Config holds everything the monitor needs at startup. Values come from the
// optional JSON file first; flags given on the command line win.
type Config struct {
	Port       string        `json:"port,omitempty"`
	BaudRate   int           `json:"baud,omitempty"`
	BLEName    string        `json:"ble,omitempty"`
	MTU        int           `json:"mtu,omitempty"`
	Capacity   int           `json:"capacity,omitempty"`
	Refresh    int           `json:"refresh,omitempty"`
	LineEnding string        `json:"eol,omitempty"`
	Quiet      bool          `json:"quiet,omitempty"`
	LogPath    string        `json:"log,omitempty"`
	Commands   command.Table `json:"commands,omitempty"`
}

func defaultConfig() Config {
	return Config{
		BaudRate:   115200,
		MTU:        link.DefaultMTU,
		Capacity:   2000,
		Refresh:    20,
		LineEnding: "crlf",
		Commands:   command.Table{},
	}
}

// loadConfigFile overlays the JSON file at path onto cfg. A missing file is
// only an error when the path was given explicitly.
func loadConfigFile(path string, cfg *Config, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	case c.Refresh <= 0:
		return fmt.Errorf("refresh must be positive, got %d", c.Refresh)
	case c.BaudRate <= 0:
		return fmt.Errorf("baud must be positive, got %d", c.BaudRate)
	case c.Port != "" && c.BLEName != "":
		return errors.New("-port and -ble are mutually exclusive")
	}
	if _, err := command.ParseLineEnding(c.LineEnding); err != nil {
		return err
	}
	return nil
}

// parseConfig reads flags from args and merges them with the config file.
func parseConfig(name string, args []string) (Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	flags := defaultConfig()
	configPath := fs.String("config", "linkscope.json", "JSON config file with defaults and named commands")
	fs.StringVar(&flags.Port, "port", "", "Serial port device (e.g., /dev/ttyUSB0). If neither -port nor -ble is given, reads from stdin.")
	fs.IntVar(&flags.BaudRate, "baud", flags.BaudRate, "Baud rate for serial port")
	fs.StringVar(&flags.BLEName, "ble", "", "Connect to the BLE peripheral whose name contains this string (Nordic UART service)")
	fs.IntVar(&flags.MTU, "mtu", flags.MTU, "BLE MTU; writes are split into MTU-3 byte chunks")
	fs.IntVar(&flags.Capacity, "capacity", flags.Capacity, "Number of history lines kept")
	fs.IntVar(&flags.Refresh, "refresh", flags.Refresh, "Screen refresh rate in updates per second")
	fs.StringVar(&flags.LineEnding, "eol", flags.LineEnding, "Line ending appended to sent text: none, lf, cr or crlf")
	fs.BoolVar(&flags.Quiet, "quiet", false, "Disable connection sounds")
	fs.StringVar(&flags.LogPath, "log", "", "Write a debug log to this file")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := defaultConfig()
	if err := loadConfigFile(*configPath, &cfg, set["config"]); err != nil {
		return Config{}, err
	}

	if set["port"] {
		cfg.Port = flags.Port
	}
	if set["baud"] {
		cfg.BaudRate = flags.BaudRate
	}
	if set["ble"] {
		cfg.BLEName = flags.BLEName
	}
	if set["mtu"] {
		cfg.MTU = flags.MTU
	}
	if set["capacity"] {
		cfg.Capacity = flags.Capacity
	}
	if set["refresh"] {
		cfg.Refresh = flags.Refresh
	}
	if set["eol"] {
		cfg.LineEnding = flags.LineEnding
	}
	if set["quiet"] {
		cfg.Quiet = flags.Quiet
	}
	if set["log"] {
		cfg.LogPath = flags.LogPath
	}

	return cfg, cfg.validate()
}
