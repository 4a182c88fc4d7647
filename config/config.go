package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DBConfig Database config
type DBConfig struct {
	Type     string `yaml:"type" json:"type"` // sqlite or postgres
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// SysConfig System config
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// WebConfig Web server config
type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// LogConfig Logging config
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"` // development or production
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// SeedConfig points at the optional inputs used to populate an empty database.
// Relative paths are resolved against the working directory.
type SeedConfig struct {
	DataFile   string `yaml:"data_file" json:"data_file"`
	ImageFile  string `yaml:"image_file" json:"image_file"`
	Background bool   `yaml:"background" json:"background"`
}

type AppConfig struct {
	System   SysConfig  `yaml:"system" json:"system"`
	Web      WebConfig  `yaml:"web" json:"web"`
	Database DBConfig   `yaml:"database" json:"database"`
	Logger   LogConfig  `yaml:"logger" json:"logger"`
	Seed     SeedConfig `yaml:"seed" json:"seed"`
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

// ResolvePath joins a relative path onto the working directory.
func (c *AppConfig) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.System.Workdir, p)
}

// Validate checks the settings the service cannot start without.
func (c *AppConfig) Validate() error {
	switch c.Database.Type {
	case "sqlite", "postgres":
	default:
		return errors.Errorf("unsupported database type %q", c.Database.Type)
	}
	if strings.TrimSpace(c.Database.Name) == "" {
		return errors.New("database name is required")
	}
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return errors.Errorf("web port %d out of range", c.Web.Port)
	}
	return nil
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "catalog",
		Location: "America/Santiago",
		Workdir:  ".",
		Debug:    false,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 3000,
	},
	Database: DBConfig{
		Type:     "sqlite",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "productos.db",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  20,
		IdleConn: 5,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "logs/catalog.log",
	},
	Seed: SeedConfig{
		DataFile:   "data/resumen_productos.json",
		ImageFile:  "data/pagoQR.jpg",
		Background: false,
	},
}

// LoadConfig reads the YAML file at cfile (when given and present), then
// applies environment overrides. A .env file in the current directory is
// loaded first so its values count as environment.
func LoadConfig(cfile string) (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := *DefaultAppConfig
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", cfile)
			}
		case os.IsNotExist(err):
			// defaults only
		default:
			return nil, errors.Wrapf(err, "read config %s", cfile)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *AppConfig) error {
	setEnvValue("CATALOG_WORKDIR", &cfg.System.Workdir)
	setEnvValue("CATALOG_LOCATION", &cfg.System.Location)
	setEnvValue("CATALOG_HOST", &cfg.Web.Host)
	setEnvValue("CATALOG_DB_TYPE", &cfg.Database.Type)
	setEnvValue("CATALOG_DB_HOST", &cfg.Database.Host)
	setEnvValue("CATALOG_DB_NAME", &cfg.Database.Name)
	setEnvValue("CATALOG_DB_USER", &cfg.Database.User)
	setEnvValue("CATALOG_DB_PASSWD", &cfg.Database.Passwd)
	setEnvValue("CATALOG_SEED_DATA", &cfg.Seed.DataFile)
	setEnvValue("CATALOG_SEED_IMAGE", &cfg.Seed.ImageFile)
	setEnvValue("CATALOG_LOGGER_MODE", &cfg.Logger.Mode)

	for name, val := range map[string]*int{
		"PORT":            &cfg.Web.Port,
		"CATALOG_DB_PORT": &cfg.Database.Port,
	} {
		if err := setEnvIntValue(name, val); err != nil {
			return err
		}
	}
	for name, val := range map[string]*bool{
		"CATALOG_DEBUG":           &cfg.System.Debug,
		"CATALOG_SEED_BACKGROUND": &cfg.Seed.Background,
	} {
		if err := setEnvBoolValue(name, val); err != nil {
			return err
		}
	}
	return nil
}

func setEnvValue(name string, val *string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*val = v
	}
}

func setEnvIntValue(name string, val *int) error {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return nil
	}
	p, err := cast.ToIntE(v)
	if err != nil {
		return errors.Wrapf(err, "env %s", name)
	}
	*val = p
	return nil
}

func setEnvBoolValue(name string, val *bool) error {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return errors.Wrapf(err, "env %s", name)
	}
	*val = b
	return nil
}

// Version is the API version reported by the service; overridable with -ldflags.
var Version = "1.0.0"
