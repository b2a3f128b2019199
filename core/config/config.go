package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	LogsDirName       = "session_logs"
	PrivateKeyName    = "private_key"
	HistoryFileName   = ".psh_history"
)

type Configuration struct {
	configFs afero.Fs

	// Prompt is the PS1 value sessions start with.
	Prompt string `json:"prompt"`
	// Motd is printed when an interactive session starts.
	Motd string `json:"motd"`

	HistoryFile  string `json:"history_file"`
	HistoryLimit int    `json:"history_limit" validate:"gte=0"`

	SSHPort   int    `json:"ssh_port" validate:"gte=0,lte=65535"`
	SSHBanner string `json:"ssh_banner"`

	AllowAnyPassword bool `json:"allow_any_password"`

	Users []User `json:"users" validate:"unique=Username"`

	// OutputRateLimit caps session output in bytes per second. Zero means
	// unlimited.
	OutputRateLimit int `json:"output_rate_limit" validate:"gte=0"`
}

type User struct {
	Username  string   `json:"username" validate:"required"`
	Passwords []string `json:"passwords" validate:"unique"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// CreateSessionLog creates a transcript file with the given name.
func (c *Configuration) CreateSessionLog(name string) (afero.File, error) {
	toCreate := filepath.Join(LogsDirName, name)
	return c.fs().Create(toCreate)
}

// OpenSessionLog opens an existing transcript for reading.
func (c *Configuration) OpenSessionLog(name string) (afero.File, error) {
	return c.fs().OpenFile(filepath.Join(LogsDirName, name), os.O_RDONLY, 0600)
}

// PrivateKeyPem returns the bytes of the host private key.
func (c *Configuration) PrivateKeyPem() ([]byte, error) {
	return afero.ReadFile(c.fs(), PrivateKeyName)
}

// GetPasswords returns allowable passwords for the given username.
func (c *Configuration) GetPasswords(username string) []string {
	var out []string
	for _, v := range c.Users {
		if v.Username == username {
			out = append(out, v.Passwords...)
		}
	}

	return out
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
