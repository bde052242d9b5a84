package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"blagbl/internal/config"
	"blagbl/internal/logger"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// options holds the flag values shared by every command.
type options struct {
	envFile  string
	database string
	logLevel string
	style    string
	cache    bool
	fetch    bool
	date     string

	byASN      bool
	asnLimit   int
	outputFile string
	fsdb       bool
	pcap       bool
	inputFSDB  string
	key        string

	listen         string
	dnsblAddr      string
	zone           string
	updateInterval time.Duration
	maxConnections int
}

func (o *options) registerGlobal(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.envFile, "env-file", ".env", "Optional dotenv file with BLAG_* settings")
	f.StringVarP(&o.database, "blag-database", "f", "", "The blag database file to use")
	f.StringVar(&o.logLevel, "log-level", "", "Define the logging verbosity level (debug, info, warning, error, fatal, critical)")
	f.StringVar(&o.logLevel, "ll", "", "Alias for --log-level")
	f.StringVar(&o.style, "style", "", "Output and log style (plain, enhanced)")
	f.BoolVarP(&o.cache, "cache-database", "C", false, "After loading the blag file, cache the index next to it for faster loading next time")
	f.BoolVar(&o.fetch, "fetch", false, "Fetch/update the cached BLAG dataset")
	f.StringVar(&o.date, "date", "", "Snapshot date to fetch (YYYY-MM-DD); defaults to yesterday")
	_ = f.MarkHidden("ll")
}

func (o *options) registerQuery(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVarP(&o.byASN, "search-by-asn", "a", false, "Search by ASN instead of IP address and return all records for that ASN")
	f.IntVarP(&o.asnLimit, "asn-limit", "A", 0, "Search by ASN, but limit the results to this number; implies -a")
	f.StringVarP(&o.outputFile, "output-file", "o", "", "Output the results to this file")
	f.BoolVarP(&o.fsdb, "output-fsdb", "F", false, "Output FSDB (tab-separated) formatted data")
	f.BoolVarP(&o.pcap, "output-pcap-filter", "T", false, "Output the results as a libpcap / tcpdump filter expression")
	f.StringVarP(&o.inputFSDB, "input-fsdb", "I", "", "Read an input FSDB and add columns to it; implies -F as well")
	f.StringVarP(&o.key, "key", "k", "key", "The input key of the FSDB input file that contains the address to analyze")
}

// config loads the configuration and applies flag overrides on top of it.
func (o *options) config() (config.Config, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return config.Config{}, err
	}
	if o.database != "" {
		cfg.Database = o.database
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.style != "" {
		cfg.Style = o.style
	}
	if o.cache {
		cfg.CacheDatabase = true
	}
	if o.listen != "" {
		cfg.ListenAddr = o.listen
	}
	if o.dnsblAddr != "" {
		cfg.DNSBLAddr = o.dnsblAddr
	}
	if o.zone != "" {
		cfg.DNSBLZone = o.zone
	}
	if o.updateInterval > 0 {
		cfg.UpdateInterval = o.updateInterval
	}
	if o.maxConnections > 0 {
		cfg.MaxConnections = o.maxConnections
	}
	return cfg, cfg.Validate()
}

// fetchDay parses --date. The zero time means yesterday.
func (o *options) fetchDay() (time.Time, error) {
	if o.date == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse(dateLayout, o.date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", o.date)
	}
	return day, nil
}

// setup loads configuration and installs the logger.
func (o *options) setup(stderr io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := o.config()
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.Setup(stderr, cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}
