package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		DocStore: DocStore{Driver: DocStoreDriverPostgres},
		Auth:     Auth{SecretKey: "segredo", TokenTTL: time.Hour},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "postgres válido", mutate: func(c *Config) {}},
		{name: "mongo válido", mutate: func(c *Config) { c.DocStore.Driver = DocStoreDriverMongo }},
		{name: "driver desconhecido", mutate: func(c *Config) { c.DocStore.Driver = "firestore" }, wantErr: true},
		{name: "sem segredo", mutate: func(c *Config) { c.Auth.SecretKey = "" }, wantErr: true},
		{name: "ttl zerado", mutate: func(c *Config) { c.Auth.TokenTTL = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
