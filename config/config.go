package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Workdir  string `yaml:"workdir" json:"workdir"`
	Location string `yaml:"location" json:"location"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Secret    string `yaml:"secret" json:"secret"`
	JwtExpire int    `yaml:"jwt_expire" json:"jwt_expire"` // token lifetime in hours
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// ContentfulConfig holds the external content feed credentials.
type ContentfulConfig struct {
	ApiUrl      string `yaml:"api_url" json:"api_url"`
	SpaceID     string `yaml:"space_id" json:"space_id"`
	AccessToken string `yaml:"access_token" json:"access_token"`
	Environment string `yaml:"environment" json:"environment"`
	ContentType string `yaml:"content_type" json:"content_type"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System     SysConfig        `yaml:"system" json:"system"`
	Web        WebConfig        `yaml:"web" json:"web"`
	Database   DBConfig         `yaml:"database" json:"database"`
	Contentful ContentfulConfig `yaml:"contentful" json:"contentful"`
	Logger     LoggerConfig     `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Passwd, c.Database.Name)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Workdir:  "/var/catalogd",
		Location: "UTC",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		Secret:    "9b6de5cc-catalogd-1816-secret",
		JwtExpire: 24,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "catalogd",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Contentful: ContentfulConfig{
		ApiUrl:      "https://cdn.contentful.com",
		Environment: "master",
		ContentType: "product",
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/catalogd/catalogd.log",
	},
}

// LoadConfig reads the yaml configuration file and applies environment
// variable overrides on top of it. A missing file is not an error, the
// defaults plus environment are used instead.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}
	setEnvValue("CATALOGD_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("CATALOGD_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("CATALOGD_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("CATALOGD_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("CATALOGD_WEB_PORT", &cfg.Web.Port)
	setEnvValue("CATALOGD_WEB_SECRET", &cfg.Web.Secret)
	setEnvIntValue("CATALOGD_WEB_JWT_EXPIRE", &cfg.Web.JwtExpire)

	setEnvValue("CATALOGD_DB_TYPE", &cfg.Database.Type)
	setEnvValue("CATALOGD_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("CATALOGD_DB_PORT", &cfg.Database.Port)
	setEnvValue("CATALOGD_DB_NAME", &cfg.Database.Name)
	setEnvValue("CATALOGD_DB_USER", &cfg.Database.User)
	setEnvValue("CATALOGD_DB_PWD", &cfg.Database.Passwd)

	setEnvValue("CONTENTFUL_API_URL", &cfg.Contentful.ApiUrl)
	setEnvValue("CONTENTFUL_SPACE_ID", &cfg.Contentful.SpaceID)
	setEnvValue("CONTENTFUL_ACCESS_TOKEN", &cfg.Contentful.AccessToken)
	setEnvValue("CONTENTFUL_ENVIRONMENT", &cfg.Contentful.Environment)
	setEnvValue("CONTENTFUL_CONTENT_TYPE", &cfg.Contentful.ContentType)

	setEnvValue("CATALOGD_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("CATALOGD_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("CATALOGD_LOGGER_FILENAME", &cfg.Logger.Filename)
	return cfg
}

func setEnvValue(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v == "true" || v == "1" || v == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}
	var i int
	if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
		*val = i
	}
}
