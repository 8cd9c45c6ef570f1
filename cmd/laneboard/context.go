package main

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"laneboard/internal/apiclient"
	"laneboard/internal/clients"
	"laneboard/internal/config"
)

type commandContext struct {
	serverFlag *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(serverFlag, configFlag *string) *commandContext {
	return &commandContext{
		serverFlag: serverFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// serverURL prefers --server and falls back to the configured bind address.
func (c *commandContext) serverURL() (string, error) {
	if c.serverFlag != nil {
		if raw := strings.TrimSpace(*c.serverFlag); raw != "" {
			if !strings.Contains(raw, "://") {
				raw = "http://" + raw
			}
			if _, err := url.Parse(raw); err != nil {
				return "", fmt.Errorf("invalid --server %q: %w", raw, err)
			}
			return raw, nil
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.BaseURL(), nil
}

func (c *commandContext) withClient(fn func(*apiclient.Client) error) error {
	base, err := c.serverURL()
	if err != nil {
		return err
	}
	return wrapDialError(fn(apiclient.New(base)), base)
}

// withStore opens the database directly for commands that work without a
// running server.
func (c *commandContext) withStore(fn func(*clients.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := clients.Open(cfg)
	if err != nil {
		return fmt.Errorf("open client store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func wrapDialError(err error, base string) error {
	if err == nil {
		return nil
	}
	var opErr *net.OpError
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to server: %s refused the connection; start it with `laneboard serve`", base)
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return fmt.Errorf("connect to server %s: %w", base, err)
	default:
		return err
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
