package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"taskflow/internal/storage"
	"taskflow/internal/task"
	"taskflow/internal/view"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "taskflow.db"
	appDir                = "taskflow"

	EnvConfig = "TASKFLOW_CONFIG"
	EnvDB     = "TASKFLOW_DB"
)

type Keymap struct {
	Quit         string `toml:"quit"`
	Add          string `toml:"add"`
	Up           string `toml:"up"`
	Down         string `toml:"down"`
	Toggle       string `toml:"toggle"`
	Delete       string `toml:"delete"`
	Detail       string `toml:"detail"`
	Confirm      string `toml:"confirm"`
	Cancel       string `toml:"cancel"`
	Edit         string `toml:"edit"`
	Search       string `toml:"search"`
	Category     string `toml:"category"`
	Priority     string `toml:"priority"`
	Stats        string `toml:"stats"`
	Calendar     string `toml:"calendar"`
	PrevMonth    string `toml:"prev_month"`
	NextMonth    string `toml:"next_month"`
	SortDue      string `toml:"sort_due"`
	SortPriority string `toml:"sort_priority"`
	SortCreated  string `toml:"sort_created"`
}

type Config struct {
	DBPath          string        `toml:"db_path"`
	Slot            string        `toml:"slot"`
	DefaultCategory task.Category `toml:"default_category"`
	DefaultPriority task.Priority `toml:"default_priority"`
	DefaultSort     view.SortKey  `toml:"default_sort"`
	TrendWeeks      int           `toml:"trend_weeks"`
	Keys            Keymap        `toml:"keys"`
}

// LoadEnv reads an optional .env file from the working directory. A missing
// file is not an error.
func LoadEnv() error {
	err := godotenv.Load()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ResolveConfigPath picks the config file: TASKFLOW_CONFIG, then the user
// config directory, then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appDir, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. A relative db_path is resolved against the config
// file's directory, and TASKFLOW_DB overrides it.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.fillDefaults()
	return cfg.resolve(path), nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.Slot == "" {
		c.Slot = def.Slot
	}
	if c.DefaultCategory != view.AllCategories && !c.DefaultCategory.Valid() {
		c.DefaultCategory = def.DefaultCategory
	}
	if c.DefaultPriority != view.AllPriorities && !c.DefaultPriority.Valid() {
		c.DefaultPriority = def.DefaultPriority
	}
	if !c.DefaultSort.Valid() {
		c.DefaultSort = def.DefaultSort
	}
	if c.TrendWeeks <= 0 || c.TrendWeeks > view.MaxTrendWeeks {
		c.TrendWeeks = def.TrendWeeks
	}
	fillKeys(&c.Keys, def.Keys)
}

func (c Config) resolve(path string) Config {
	if env := os.Getenv(EnvDB); env != "" {
		c.DBPath = env
	}
	if !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(filepath.Dir(path), c.DBPath)
	}
	return c
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fillKeys(k *Keymap, def Keymap) {
	pairs := []struct {
		dst *string
		src string
	}{
		{&k.Quit, def.Quit}, {&k.Add, def.Add}, {&k.Up, def.Up}, {&k.Down, def.Down},
		{&k.Toggle, def.Toggle}, {&k.Delete, def.Delete}, {&k.Detail, def.Detail},
		{&k.Confirm, def.Confirm}, {&k.Cancel, def.Cancel}, {&k.Edit, def.Edit},
		{&k.Search, def.Search}, {&k.Category, def.Category}, {&k.Priority, def.Priority},
		{&k.Stats, def.Stats}, {&k.Calendar, def.Calendar}, {&k.PrevMonth, def.PrevMonth},
		{&k.NextMonth, def.NextMonth}, {&k.SortDue, def.SortDue},
		{&k.SortPriority, def.SortPriority}, {&k.SortCreated, def.SortCreated},
	}
	for _, p := range pairs {
		if *p.dst == "" {
			*p.dst = p.src
		}
	}
}

// Default returns the built-in configuration with a relative db_path.
func Default() Config {
	return Config{
		DBPath:          DefaultDBName,
		Slot:            storage.DefaultSlot,
		DefaultCategory: view.AllCategories,
		DefaultPriority: view.AllPriorities,
		DefaultSort:     view.SortCreated,
		TrendWeeks:      view.DefaultTrendWeeks,
		Keys: Keymap{
			Quit:         "q",
			Add:          "a",
			Up:           "k",
			Down:         "j",
			Toggle:       " ",
			Delete:       "d",
			Detail:       "i",
			Confirm:      "enter",
			Cancel:       "esc",
			Edit:         "e",
			Search:       "/",
			Category:     "c",
			Priority:     "p",
			Stats:        "s",
			Calendar:     "v",
			PrevMonth:    "[",
			NextMonth:    "]",
			SortDue:      "D",
			SortPriority: "P",
			SortCreated:  "C",
		},
	}
}
