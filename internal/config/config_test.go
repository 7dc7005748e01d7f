package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func devConfig() *Config {
	return &Config{
		Port:      "8480",
		JWTSecret: "your-secret-key-change-in-production",
		Env:       "development",
	}
}

func prodConfig() *Config {
	return &Config{
		Port:       "8480",
		JWTSecret:  "a-strong-secret-with-enough-length-0123456789",
		DBPassword: "s3cure-database-password",
		DBSSLMode:  "require",
		Env:        "production",
	}
}

func TestValidate_Development(t *testing.T) {
	assert.NoError(t, devConfig().Validate())

	c := devConfig()
	c.Port = ""
	assert.ErrorContains(t, c.Validate(), "PORT")

	c = devConfig()
	c.JWTSecret = ""
	assert.ErrorContains(t, c.Validate(), "JWT_SECRET")
}

func TestValidate_ProductionHardening(t *testing.T) {
	assert.NoError(t, prodConfig().Validate())

	c := prodConfig()
	c.JWTSecret = "your-secret-key-change-in-production"
	assert.ErrorContains(t, c.Validate(), "default value")

	c = prodConfig()
	c.JWTSecret = "too-short"
	assert.ErrorContains(t, c.Validate(), "32 characters")

	c = prodConfig()
	c.DBPassword = "password"
	assert.ErrorContains(t, c.Validate(), "DB_PASSWORD")

	// "prod" is treated the same as "production".
	c = prodConfig()
	c.Env = "prod"
	c.DBPassword = ""
	assert.ErrorContains(t, c.Validate(), "DB_PASSWORD")
}
