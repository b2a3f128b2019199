package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"sigs.k8s.io/yaml"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := defaultConfig()
	assert.NotNil(t, cfg)
	assert.Nil(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	cfg.SSHPort = 99999
	err := cfg.Validate()
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "ssh_port", "errors use the json field name")
}

func TestGetPasswords(t *testing.T) {
	cfg := &Configuration{
		Users: []User{
			{Username: "alice", Passwords: []string{"a1", "a2"}},
			{Username: "bob", Passwords: []string{"b1"}},
		},
	}

	assert.Equal(t, []string{"a1", "a2"}, cfg.GetPasswords("alice"))
	assert.Equal(t, []string{"b1"}, cfg.GetPasswords("bob"))
	assert.Empty(t, cfg.GetPasswords("mallory"))
}
