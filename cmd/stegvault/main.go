// Command stegvault hides passphrase-encrypted credential vaults in the
// least-significant bits of PNG and BMP images, and reads them back.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/kalashnikxvxiii-collab/StegVault/internal/config"
	"github.com/kalashnikxvxiii-collab/StegVault/internal/vault"
	"github.com/kalashnikxvxiii-collab/StegVault/pkg/stegvault"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	switch os.Args[1] {
	case "capacity":
		err = cmdCapacity(os.Args[2:])
	case "create":
		err = cmdCreate(cfg, logger, os.Args[2:])
	case "show":
		err = cmdShow(cfg, logger, os.Args[2:])
	case "add":
		err = cmdAdd(cfg, logger, os.Args[2:])
	case "edit":
		err = cmdEdit(cfg, logger, os.Args[2:])
	case "remove":
		err = cmdRemove(cfg, logger, os.Args[2:])
	case "search":
		err = cmdSearch(cfg, logger, os.Args[2:])
	case "ui":
		err = cmdUI(cfg, logger, os.Args[2:])
	case "totp":
		err = cmdTOTP(cfg, logger, os.Args[2:])
	case "gallery":
		err = cmdGallery(cfg, os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: stegvault <command> [flags]

Commands:
  capacity -image <file>                      report how much a carrier can hold
  create   -image <file> -out <file>          create a vault inside a carrier image
  show     -image <file> [-name x] [-json]    list or print vault entries
  add      -image <file> -out <file> -name x  add an entry to an existing vault
  edit     -image <file> -out <file> -name x  change fields of an existing entry
  remove   -image <file> -out <file> -name x  delete an entry from the vault
  search   -image <file> -term x              find entries by name, username, URL or tag
  ui       -image <file> [-out <file>]        browse and edit the vault interactively
  totp     -image <file> -name x              print the current TOTP code for an entry
  gallery  <init|add|list|remove> [flags]     manage the stego image catalog`)
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func options(cfg *config.Config, logger *zap.Logger, format string) *stegvault.Options {
	opts := stegvault.DefaultOptions()
	opts.KDF = cfg.KDFParams()
	opts.Logger = logger
	if format != "" {
		opts.OutputFormat = format
	} else {
		opts.OutputFormat = cfg.OutputFormat
	}
	return opts
}

// readPassphrase prompts on the terminal without echo.
func readPassphrase(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	return pass, err
}

func newPassphrase() ([]byte, error) {
	pass, err := readPassphrase("Passphrase: ")
	if err != nil {
		return nil, err
	}
	if ok, msg := vault.CheckPassphrase(string(pass)); !ok {
		return nil, fmt.Errorf("%s", msg)
	}
	confirm, err := readPassphrase("Confirm passphrase: ")
	if err != nil {
		return nil, err
	}
	if string(pass) != string(confirm) {
		return nil, fmt.Errorf("passphrases do not match")
	}
	return pass, nil
}

func cmdCapacity(args []string) error {
	fs := flag.NewFlagSet("capacity", flag.ExitOnError)
	image := fs.String("image", "", "carrier image file")
	fs.Parse(args)
	if *image == "" {
		return fmt.Errorf("capacity: -image is required")
	}
	info, err := stegvault.CalculateCapacityFile(*image)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %dx%d %s\n", *image, info.Width, info.Height, info.Format)
	fmt.Printf("  raw capacity:   %d bytes\n", info.CapacityBytes)
	fmt.Printf("  max vault size: %d bytes\n", info.MaxVaultBytes)
	return nil
}

func cmdCreate(cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	image := fs.String("image", "", "carrier image file")
	out := fs.String("out", "", "output stego image file")
	format := fs.String("format", "", "output format: png or bmp (default: config)")
	from := fs.String("from", "", "optional JSON file with initial entries")
	fs.Parse(args)
	if *image == "" || *out == "" {
		return fmt.Errorf("create: -image and -out are required")
	}

	v := vault.New()
	if *from != "" {
		data, err := os.ReadFile(*from)
		if err != nil {
			return fmt.Errorf("failed to read entries file: %w", err)
		}
		var entries []vault.Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("failed to parse entries file: %w", err)
		}
		for _, e := range entries {
			if err := v.Add(e); err != nil {
				return err
			}
		}
	}

	pass, err := newPassphrase()
	if err != nil {
		return err
	}
	if err := stegvault.CreateFile(*image, *out, pass, v, options(cfg, logger, *format)); err != nil {
		return err
	}
	fmt.Printf("Created vault with %d entries in %s\n", len(v.Entries), *out)
	return nil
}

func cmdShow(cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	image := fs.String("image", "", "stego image file")
	name := fs.String("name", "", "entry to print in full")
	asJSON := fs.Bool("json", false, "dump the whole vault as JSON")
	fs.Parse(args)
	if *image == "" {
		return fmt.Errorf("show: -image is required")
	}

	pass, err := readPassphrase("Passphrase: ")
	if err != nil {
		return err
	}
	v, err := stegvault.OpenFile(*image, pass, options(cfg, logger, ""))
	if err != nil {
		return err
	}

	switch {
	case *asJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case *name != "":
		e, ok := v.Get(*name)
		if !ok {
			return fmt.Errorf("%w: %q", vault.ErrEntryNotFound, *name)
		}
		fmt.Printf("Name:     %s\n", e.Name)
		fmt.Printf("Username: %s\n", e.Username)
		fmt.Printf("Password: %s\n", e.Password)
		if e.URL != "" {
			fmt.Printf("URL:      %s\n", e.URL)
		}
		if e.Notes != "" {
			fmt.Printf("Notes:    %s\n", e.Notes)
		}
		if e.TOTPSecret != "" {
			fmt.Println("TOTP:     configured")
		}
	default:
		fmt.Printf("Vault: %d entries (updated %s)\n", len(v.Entries), v.UpdatedAt.Format(time.RFC3339))
		for _, n := range v.Names() {
			fmt.Printf("  %s\n", n)
		}
	}
	return nil
}

func cmdAdd(cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	image := fs.String("image", "", "stego image file")
	out := fs.String("out", "", "output stego image file (default: overwrite input)")
	name := fs.String("name", "", "entry name")
	username := fs.String("user", "", "username")
	password := fs.String("pass", "", "password (prompted if empty)")
	urlFlag := fs.String("url", "", "site URL")
	notes := fs.String("notes", "", "free-form notes")
	withTOTP := fs.Bool("totp", false, "generate a TOTP secret for this entry")
	fs.Parse(args)
	if *image == "" || *name == "" {
		return fmt.Errorf("add: -image and -name are required")
	}
	if *out == "" {
		*out = *image
	}

	pass, err := readPassphrase("Passphrase: ")
	if err != nil {
		return err
	}
	opts := options(cfg, logger, "")
	v, err := stegvault.OpenFile(*image, pass, opts)
	if err != nil {
		return err
	}

	entryPass := *password
	if entryPass == "" {
		p, err := readPassphrase("Entry password: ")
		if err != nil {
			return err
		}
		entryPass = string(p)
	}
	entry := vault.Entry{
		Name:     *name,
		Username: *username,
		Password: entryPass,
		URL:      *urlFlag,
		Notes:    *notes,
	}
	if *withTOTP {
		secret, err := vault.GenerateTOTPSecret()
		if err != nil {
			return err
		}
		entry.TOTPSecret = secret
		fmt.Printf("TOTP secret: %s\n", secret)
		fmt.Printf("Provisioning URI: %s\n", vault.TOTPProvisioningURI(secret, *name, "StegVault"))
	}
	if err := v.Add(entry); err != nil {
		return err
	}

	if err := stegvault.CreateFile(*image, *out, pass, v, opts); err != nil {
		return err
	}
	fmt.Printf("Added %q, vault now has %d entries\n", *name, len(v.Entries))
	return nil
}

func cmdEdit(cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	image := fs.String("image", "", "stego image file")
	out := fs.String("out", "", "output stego image file (default: overwrite input)")
	name := fs.String("name", "", "entry name")
	username := fs.String("user", "", "new username")
	password := fs.String("pass", "", "new password")
	urlFlag := fs.String("url", "", "new site URL")
	notes := fs.String("notes", "", "new free-form notes")
	fs.Parse(args)
	if *image == "" || *name == "" {
		return fmt.Errorf("edit: -image and -name are required")
	}
	if *out == "" {
		*out = *image
	}

	pass, err := readPassphrase("Passphrase: ")
	if err != nil {
		return err
	}
	opts := options(cfg, logger, "")
	v, err := stegvault.OpenFile(*image, pass, opts)
	if err != nil {
		return err
	}
	entry, ok := v.Get(*name)
	if !ok {
		return fmt.Errorf("%w: %q", vault.ErrEntryNotFound, *name)
	}

	// Empty flags keep the current value.
	if *username != "" {
		entry.Username = *username
	}
	if *password != "" {
		entry.Password = *password
	}
	if *urlFlag != "" {
		entry.URL = *urlFlag
	}
	if *notes != "" {
		entry.Notes = *notes
	}
	if err := v.Update(*name, entry); err != nil {
		return err
	}

	if err := stegvault.CreateFile(*image, *out, pass, v, opts); err != nil {
		return err
	}
	fmt.Printf("Updated %q\n", *name)
	return nil
}

func cmdRemove(cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	image := fs.String("image", "", "stego image file")
	out := fs.String("out", "", "output stego image file (default: overwrite input)")
	name := fs.String("name", "", "entry name")
	fs.Parse(args)
	if *image == "" || *name == "" {
		return fmt.Errorf("remove: -image and -name are required")
	}
	if *out == "" {
		*out = *image
	}

	pass, err := readPassphrase("Passphrase: ")
	if err != nil {
		return err
	}
	opts := options(cfg, logger, "")
	v, err := stegvault.OpenFile(*image, pass, opts)
	if err != nil {
		return err
	}
	if err := v.Remove(*name); err != nil {
		return err
	}

	if err := stegvault.CreateFile(*image, *out, pass, v, opts); err != nil {
		return err
	}
	fmt.Printf("Removed %q, vault now has %d entries\n", *name, len(v.Entries))
	return nil
}

func cmdSearch(cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	image := fs.String("image", "", "stego image file")
	term := fs.String("term", "", "search term")
	fs.Parse(args)
	if *image == "" || *term == "" {
		return fmt.Errorf("search: -image and -term are required")
	}

	pass, err := readPassphrase("Passphrase: ")
	if err != nil {
		return err
	}
	v, err := stegvault.OpenFile(*image, pass, options(cfg, logger, ""))
	if err != nil {
		return err
	}

	matches := v.Search(*term)
	if len(matches) == 0 {
		fmt.Printf("No entries match %q\n", *term)
		return nil
	}
	for _, e := range matches {
		line := e.Name
		if e.Username != "" {
			line += "  (" + e.Username + ")"
		}
		if e.URL != "" {
			line += "  " + e.URL
		}
		fmt.Println(line)
	}
	return nil
}

func cmdTOTP(cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("totp", flag.ExitOnError)
	image := fs.String("image", "", "stego image file")
	name := fs.String("name", "", "entry name")
	fs.Parse(args)
	if *image == "" || *name == "" {
		return fmt.Errorf("totp: -image and -name are required")
	}

	pass, err := readPassphrase("Passphrase: ")
	if err != nil {
		return err
	}
	v, err := stegvault.OpenFile(*image, pass, options(cfg, logger, ""))
	if err != nil {
		return err
	}
	e, ok := v.Get(*name)
	if !ok {
		return fmt.Errorf("%w: %q", vault.ErrEntryNotFound, *name)
	}
	if e.TOTPSecret == "" {
		return fmt.Errorf("entry %q has no TOTP secret", *name)
	}
	now := time.Now()
	code, err := vault.TOTPCode(e.TOTPSecret, now)
	if err != nil {
		return err
	}
	fmt.Printf("%s (valid for %ds)\n", code, vault.TOTPTimeRemaining(now))
	return nil
}
