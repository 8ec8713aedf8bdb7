package cmdutil

import (
	"errors"
	"fmt"
	"os"

	"nicolive-terminal/pkg/config"
	"nicolive-terminal/pkg/core"
	"nicolive-terminal/pkg/nicolive"
	"nicolive-terminal/pkg/prompt"
	"nicolive-terminal/pkg/storage"
)

// Env carries what the root command resolved for its subcommands.
type Env struct {
	Storage    *storage.StorageManager
	Config     *config.Config
	ConfigPath string
	Session    string
}

func (e *Env) NewClient() (*nicolive.Client, error) {
	if e == nil || e.Config == nil {
		return nil, errors.New("configuration not loaded")
	}
	cfg, err := e.Config.Client()
	if err != nil {
		return nil, err
	}
	return nicolive.New(cfg, nicolive.WithLogger(core.Logger)), nil
}

// Credentials takes the mail from the configuration and the password from
// NICOLIVE_PASSWORD, falling back to an interactive prompt.
func (e *Env) Credentials() (nicolive.Credentials, error) {
	creds := nicolive.Credentials{Mail: e.Config.Account.Mail}
	if creds.Mail == "" && prompt.Interactive() {
		mail, err := prompt.Line(os.Stderr, os.Stdin, "Mail: ")
		if err != nil {
			return creds, err
		}
		creds.Mail = mail
	}
	if creds.Mail == "" {
		return creds, errors.New("no mail address: use --mail or NICOLIVE_MAIL")
	}

	creds.Password = os.Getenv("NICOLIVE_PASSWORD")
	if creds.Password == "" {
		password, err := prompt.Password(fmt.Sprintf("Password for %s: ", creds.Mail))
		if err != nil {
			if errors.Is(err, prompt.ErrNoTerminal) {
				return creds, errors.New("no password: set NICOLIVE_PASSWORD or run interactively")
			}
			return creds, err
		}
		creds.Password = password
	}
	return creds, nil
}

// Authenticate adopts the session token when one was given, otherwise logs in.
func (e *Env) Authenticate(client *nicolive.Client) error {
	if e.Session != "" {
		client.SetSession(e.Session)
		return nil
	}

	creds, err := e.Credentials()
	if err != nil {
		return err
	}
	client.SetAccount(creds)
	if err := client.Login(); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}
