package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/wpstack/internal/config"
)

func TestInit_WritesWizardResult(t *testing.T) {
	env := setupApply(t)
	fileExists = func(string) bool { return true }
	runWizard = func(context.Context) (*config.WizardResult, error) {
		return &config.WizardResult{
			Domain:     "blog.example.com",
			WebServer:  config.WebServerCaddy,
			PHPVersion: "8.3",
			Database:   "blog",
			Firewall:   true,
		}, nil
	}
	var saved *config.Config
	var savedPath string
	saveConfig = func(cfg *config.Config, path string) error {
		saved, savedPath = cfg, path
		return nil
	}

	require.NoError(t, Init(context.Background(), "site.yaml"))

	require.NotNil(t, saved)
	assert.Equal(t, "site.yaml", savedPath)
	assert.Equal(t, "blog.example.com", saved.Site.Domain)
	assert.Equal(t, config.WebServerCaddy, saved.WebServer)
	assert.Contains(t, env.out.String(), "already exists")
	assert.Contains(t, env.out.String(), "Configuration saved!")
	assert.Contains(t, env.out.String(), "caddy")
}

func TestInit_WizardCanceled(t *testing.T) {
	setupApply(t)
	fileExists = func(string) bool { return false }
	runWizard = func(context.Context) (*config.WizardResult, error) {
		return nil, errors.New("user aborted")
	}
	saveConfig = func(*config.Config, string) error {
		t.Fatal("nothing should be written")
		return nil
	}

	err := Init(context.Background(), "site.yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "wizard canceled")
}

func TestInit_WriteError(t *testing.T) {
	setupApply(t)
	fileExists = func(string) bool { return false }
	runWizard = func(context.Context) (*config.WizardResult, error) {
		return &config.WizardResult{WebServer: config.WebServerNginx, PHPVersion: "8.2", Database: "wordpress"}, nil
	}
	saveConfig = func(*config.Config, string) error { return errors.New("read-only file system") }

	err := Init(context.Background(), "site.yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write config")
}
