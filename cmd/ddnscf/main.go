package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	ddns "github.com/Travis-Britz/cfddns"
	"github.com/Travis-Britz/cfddns/internal/config"
	"github.com/Travis-Britz/cfddns/internal/logclient"
	"github.com/Travis-Britz/cfddns/internal/models"
	_ "github.com/breml/rootcerts"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/joho/godotenv"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gosplash"
	"github.com/qdm12/log"
	"golang.org/x/term"
)

//nolint:gochecknoglobals
var (
	version = "unknown"
	commit  = "unknown"
	date    = "an unknown date"
)

func main() {
	buildInfo := models.BuildInformation{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
	logger := log.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	err := _main(ctx, os.Args, os.Stdout, logger, buildInfo)
	stop()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

var errUnknownCommand = errors.New("unknown command")

func _main(ctx context.Context, args []string, stdout io.Writer,
	logger log.LoggerInterface, buildInfo models.BuildInformation) error {
	command, rest := "run", args[1:]
	if len(rest) > 0 {
		switch {
		case rest[0] == "-version", rest[0] == "--version":
			command, rest = "version", rest[1:]
		case !strings.HasPrefix(rest[0], "-"):
			command, rest = rest[0], rest[1:]
		}
	}

	switch command {
	case "run":
		return runReconcile(ctx, rest, logger)
	case "setup":
		return runSetup(ctx, rest, stdout, logger)
	case "records":
		return runRecords(ctx, rest, stdout, logger)
	case "version":
		printSplash(stdout, buildInfo)
		return nil
	default:
		return fmt.Errorf("%w: %q; expected one of run, setup, records or version", errUnknownCommand, command)
	}
}

type commonFlags struct {
	envFile string
	keyFile string
	verbose bool
}

func (f *commonFlags) register(flagSet *flag.FlagSet) {
	flagSet.StringVar(&f.envFile, "env", ".env", "Path to a dotenv file holding settings; a missing default file is ignored")
	flagSet.StringVar(&f.keyFile, "k", "", "Path to cloudflare API token file")
	flagSet.BoolVar(&f.verbose, "v", false, "Enable verbose logging")
}

func runReconcile(ctx context.Context, args []string, logger log.LoggerInterface) error {
	var flags commonFlags
	var ip, iface string
	flagSet := flag.NewFlagSet("run", flag.ContinueOnError)
	flags.register(flagSet)
	flagSet.StringVar(&ip, "ip", "", "IP address to set instead of looking it up")
	flagSet.StringVar(&iface, "iface", "", "Network interface holding the public IP address")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := readConfig(flagSet, flags, logger, func(c *config.Config) {
		c.Lookup.IP = ip
		c.Lookup.Interface = iface
	})
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("settings validation: %w", err)
	}
	logger.Info(cfg.String())

	resolver, err := cfg.Lookup.Resolver()
	if err != nil {
		return fmt.Errorf("creating resolver: %w", err)
	}

	client, err := ddns.New(cfg.Credentials(),
		ddns.UsingResolver(resolver),
		ddns.UsingHTTPClient(newHTTPClient(cfg, logger)),
		ddns.WithStrict(*cfg.Lookup.Strict),
		ddns.WithLogger(logger.New(log.SetComponent("ddns"))),
	)
	if err != nil {
		return fmt.Errorf("error creating ddns.Client: %w", err)
	}

	record, err := client.Reconcile(ctx)
	if err != nil {
		return err
	}
	if record != nil {
		logger.Info("record updated: " + record.String())
	}
	return nil
}

func runSetup(ctx context.Context, args []string, stdout io.Writer, logger log.LoggerInterface) error {
	var flags commonFlags
	flagSet := flag.NewFlagSet("setup", flag.ContinueOnError)
	flags.register(flagSet)
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	keyFile := flags.keyFile
	if keyFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("runSetup: %w", err)
		}
		keyFile = filepath.Join(home, ".cloudflare")
	}
	// the key file does not exist yet
	cfg, err := readConfig(flagSet, flags, logger, func(c *config.Config) {
		c.Cloudflare.TokenFile = ""
	})
	if err != nil {
		return err
	}

	fmt.Fprint(stdout, "Enter Cloudflare API Token: ")
	bytekey, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(stdout)
	if err != nil {
		return fmt.Errorf("runSetup: error reading from stdin: %w", err)
	}
	key := strings.TrimSpace(string(bytekey))

	cf, err := ddns.NewCloudflare(key, ddns.CloudflareHTTPClient(newHTTPClient(cfg, logger)))
	if err != nil {
		return fmt.Errorf("runSetup: %w", err)
	}
	const verifyTimeout = 5 * time.Second
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()
	logger.Info("verifying token...")
	if err := cf.VerifyToken(ctx); err != nil {
		return fmt.Errorf("unable to verify api token: %w", err)
	}
	logger.Info("token verified successfully")

	if err := config.WriteKey(keyFile, key); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("token written to %q", keyFile))
	return nil
}

func runRecords(ctx context.Context, args []string, stdout io.Writer, logger log.LoggerInterface) error {
	var flags commonFlags
	flagSet := flag.NewFlagSet("records", flag.ContinueOnError)
	flags.register(flagSet)
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := readConfig(flagSet, flags, logger, nil)
	if err != nil {
		return err
	}
	var missing []string
	if cfg.Cloudflare.APIToken == "" {
		missing = append(missing, "API token")
	}
	if cfg.Cloudflare.ZoneID == "" {
		missing = append(missing, "zone identifier")
	}
	if len(missing) > 0 {
		return &ddns.ConfigError{Missing: missing}
	}

	cf, err := ddns.NewCloudflare(cfg.Cloudflare.APIToken, ddns.CloudflareHTTPClient(newHTTPClient(cfg, logger)))
	if err != nil {
		return err
	}
	records, err := cf.ListRecords(ctx, cfg.Cloudflare.ZoneID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tNAME\tCONTENT")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Type, r.Name, r.Content)
	}
	return w.Flush()
}

// readConfig loads the dotenv file, reads the environment and applies the command line flags.
// The token file is read and defaults are set, but validation is left to the caller.
func readConfig(flagSet *flag.FlagSet, flags commonFlags, logger log.LoggerInterface,
	override func(*config.Config)) (cfg config.Config, err error) {
	if err := loadEnvFile(flags.envFile, isFlagSet(flagSet, "env")); err != nil {
		return cfg, err
	}

	reader := reader.New(reader.Settings{
		HandleDeprecatedKey: func(source, oldKey, newKey string) {
			logger.Warnf("%q key %s is deprecated, please use %q instead",
				source, oldKey, newKey)
		},
	})
	if err := cfg.Read(reader); err != nil {
		return cfg, fmt.Errorf("reading settings: %w", err)
	}

	if flags.keyFile != "" {
		cfg.Cloudflare.TokenFile = flags.keyFile
	}
	if flags.verbose {
		level := log.LevelDebug
		cfg.Logger.Level = &level
	}
	if override != nil {
		override(&cfg)
	}
	cfg.SetDefaults()
	logger.Patch(cfg.Logger.ToOptions()...)

	if err := cfg.Cloudflare.ReadTokenFile(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadEnvFile adds the variables of the dotenv file at path to the environment,
// leaving variables already set untouched.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
		return fmt.Errorf("loading settings file: %w", err)
	}
	return nil
}

func isFlagSet(flagSet *flag.FlagSet, name string) (set bool) {
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func newHTTPClient(cfg config.Config, logger log.LoggerInterface) *http.Client {
	client := cleanhttp.DefaultClient()
	if *cfg.Logger.Level == log.LevelDebug {
		client = logclient.New(client, logger.New(log.SetComponent("http")))
	}
	return client
}

func printSplash(w io.Writer, buildInfo models.BuildInformation) {
	splashSettings := gosplash.Settings{
		User:       "Travis-Britz",
		Repository: "cfddns",
		Version:    buildInfo.VersionString(),
		Commit:     buildInfo.Commit,
		BuildDate:  buildInfo.Date,
	}
	for _, line := range gosplash.MakeLines(splashSettings) {
		fmt.Fprintln(w, line)
	}
}
