package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"mailpilot/utils"
)

type ServerConfig struct {
	Port int `toml:"port"`
}

type IMAPConfig struct {
	Server string `toml:"server"`
	Port   int    `toml:"port"`
}

// FolderConfig overrides the provider folder-name candidates probed for
// draft and trash operations.
type FolderConfig struct {
	Drafts  []string `toml:"drafts"`
	AllMail []string `toml:"all_mail"`
	Trash   []string `toml:"trash"`
}

type ComposeConfig struct {
	SignerName string `toml:"signer_name"`
}

type OutputConfig struct {
	Dir string `toml:"dir"`
}

// Credentials are read from the environment only, never from the
// config file.
type Credentials struct {
	Address  string `toml:"-"`
	Password string `toml:"-"`
}

type Config struct {
	Server      ServerConfig  `toml:"server"`
	IMAP        IMAPConfig    `toml:"imap"`
	Folders     FolderConfig  `toml:"folders"`
	Compose     ComposeConfig `toml:"compose"`
	Output      OutputConfig  `toml:"output"`
	Credentials Credentials   `toml:"-"`
}

// Load reads the TOML config file (missing file falls back to
// defaults) and the mailbox credentials from the environment. Missing
// credentials are fatal before any network activity happens.
func Load(path string) (*Config, error) {
	// A local .env is a convenience, not a requirement.
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Server.Port = 3000
	cfg.IMAP.Server = "imap.gmail.com"
	cfg.IMAP.Port = 993
	cfg.Output.Dir = "output"

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	creds, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}
	cfg.Credentials = creds

	if cfg.Compose.SignerName == "" {
		cfg.Compose.SignerName = usernameOf(creds.Address)
	}

	return cfg, nil
}

// credentialsFromEnv reads the mailbox address and app password. The
// legacy GMAIL_EMAIL/GMAIL_APP_PASSWORD pair is still accepted as a
// fallback.
func credentialsFromEnv() (Credentials, error) {
	address := os.Getenv("EMAIL_ADDRESS")
	if address == "" {
		address = os.Getenv("GMAIL_EMAIL")
	}
	password := os.Getenv("APP_PASSWORD")
	if password == "" {
		password = os.Getenv("GMAIL_APP_PASSWORD")
	}

	if address == "" || password == "" {
		return Credentials{}, &utils.ConfigurationError{
			Reason: "EMAIL_ADDRESS and APP_PASSWORD must be set in the environment",
		}
	}

	return Credentials{Address: address, Password: password}, nil
}

func usernameOf(address string) string {
	if at := strings.Index(address, "@"); at > 0 {
		return address[:at]
	}
	return address
}
