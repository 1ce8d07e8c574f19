package main

import (
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2overleaf/internal/config"
	"github.com/alnah/go-md2overleaf/internal/hints"
	"github.com/alnah/go-md2overleaf/internal/yamlutil"
)

// runSettings shows, changes or resets the persisted settings.
func runSettings(args []string, env *Environment) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printSettingsUsage(env.Stderr) }
	var path string
	fs.StringVarP(&path, "settings", "s", "", "settings file path")
	if err := fs.Parse(args); err != nil {
		return parseError(err)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printSettingsUsage(env.Stderr)
		return fmt.Errorf("%w: missing settings action", ErrUsage)
	}

	if path == "" {
		path = loadEnvConfig(env.Getenv).SettingsPath
	}
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	store := config.NewStore(path)

	switch action := rest[0]; action {
	case "show":
		return showSettings(store, env)
	case "set":
		if len(rest) != 3 {
			return fmt.Errorf("%w: usage: settings set <key> <value>", ErrUsage)
		}
		settings, err := loadForUpdate(store)
		if err != nil {
			return err
		}
		if err := settings.Set(rest[1], rest[2]); err != nil {
			return err
		}
		if err := store.Save(settings); err != nil {
			return err
		}
		fmt.Fprintf(env.Stderr, "Saved %s = %s to %s\n", rest[1], rest[2], store.Path())
		return nil
	case "reset":
		if err := store.Save(config.DefaultSettings()); err != nil {
			return err
		}
		fmt.Fprintf(env.Stderr, "Settings reset in %s\n", store.Path())
		return nil
	case "path":
		fmt.Fprintln(env.Stdout, store.Path())
		return nil
	default:
		return fmt.Errorf("%w: unknown settings action %q", ErrUsage, action)
	}
}

func showSettings(store *config.Store, env *Environment) error {
	settings, err := loadForUpdate(store)
	if err != nil {
		return err
	}
	data, err := yamlutil.Marshal(settings)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stdout, "# %s\n%s", store.Path(), data)
	return nil
}

// loadForUpdate loads settings, pointing at `settings reset` on a corrupt file.
func loadForUpdate(store *config.Store) (*config.Settings, error) {
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("%w%s", err, hints.ForSettingsParse(store.Path()))
	}
	return settings, nil
}
