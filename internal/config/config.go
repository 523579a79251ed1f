// Package config loads and validates the application configuration from
// layered sources: built-in defaults, a JSON file and CNPJ_-prefixed
// environment variables, in increasing priority.
package config

import (
	"os"
	"strings"
	"time"

	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName identifies the application in logs and file names.
	AppName string = "cnpj-tools"

	// DefaultFilename is the configuration file looked up when no
	// explicit path is given on the command line.
	DefaultFilename = AppName + ".json"
)

// AppConfig is the root of the configuration tree shared by both
// binaries; cnpj-gen reads Generate/Status/Notify, cnpj-check reads
// Check/Notify.
type AppConfig struct {
	Debug bool `json:"debug"`

	Log      LogConfig      `json:"log"`
	Generate GenerateConfig `json:"generate"`
	Check    CheckConfig    `json:"check"`
	Status   StatusConfig   `json:"status"`
	Notify   NotifyConfig   `json:"notify"`
}

func (c *AppConfig) validate() error {
	if err := c.Generate.validate(); err != nil {
		return err
	}
	if err := c.Check.validate(); err != nil {
		return err
	}
	if err := c.Status.validate(); err != nil {
		return err
	}
	return c.Notify.validate()
}

// LogConfig selects where log files go; everything else about logging
// comes from the pkg/log profiles.
type LogConfig struct {
	Dir string `json:"dir"`
}

// GenerateConfig drives one cnpj-gen run.
type GenerateConfig struct {
	// Strategy selects the candidate cursor: random, sequential or
	// neighborhood.
	Strategy string `json:"strategy" validate:"required,oneof=random sequential neighborhood"`

	// Count is the number of identifiers to produce. 0 means drain the
	// whole candidate space (sequential and neighborhood only).
	Count uint64 `json:"count"`

	// Seed makes randomized strategies reproducible. 0 derives a seed
	// from the clock.
	Seed uint64 `json:"seed"`

	// KeepDegenerate emits bases whose 12 digits are all identical
	// instead of skipping them.
	KeepDegenerate bool `json:"keep_degenerate"`

	Output       OutputConfig       `json:"output"`
	Random       RandomConfig       `json:"random"`
	Sequential   SequentialConfig   `json:"sequential"`
	Neighborhood NeighborhoodConfig `json:"neighborhood"`
}

func (c *GenerateConfig) validate() error {
	if err := validateStruct(c, "generate"); err != nil {
		return err
	}

	// The random strategy resamples forever; an unbounded run would
	// never stop.
	if c.Strategy == "random" && c.Count == 0 {
		return apperrors.New(apperrors.InvalidInput, "generate.count must be at least 1 for the random strategy")
	}

	if c.Strategy == "neighborhood" && strings.TrimSpace(c.Neighborhood.BaseCNPJ) == "" {
		return apperrors.New(apperrors.InvalidInput, "generate.neighborhood.base_cnpj is required for the neighborhood strategy")
	}

	return validateStruct(&c.Output, "generate.output")
}

// OutputConfig parameterizes the chunked line writer.
type OutputConfig struct {
	// Prefix is the destination path without extension; chunked runs
	// append _NNNNN.txt.
	Prefix string `json:"prefix" validate:"required"`

	// ChunkSize caps lines per file; 0 writes a single file.
	ChunkSize uint64 `json:"chunk_size"`

	// Masked writes DD.DDD.DDD/DDDD-DD instead of raw digits.
	Masked bool `json:"masked"`

	// ProgressEvery logs the running total after every multiple of this
	// many lines; 0 disables progress reporting.
	ProgressEvery uint64 `json:"progress_every"`
}

// RandomConfig bounds the random strategy. Zero values defer to the
// strategy defaults.
type RandomConfig struct {
	RootMin     uint64 `json:"root_min" validate:"max=99999999"`
	RootMax     uint64 `json:"root_max" validate:"max=99999999"`
	FixedBranch uint64 `json:"fixed_branch" validate:"max=9999"`
	BiasNewer   bool   `json:"bias_newer"`
}

// SequentialConfig bounds the sequential sweep and its sharding.
type SequentialConfig struct {
	Start       uint64 `json:"start"`
	End         uint64 `json:"end"`
	Step        uint64 `json:"step"`
	ShardIndex  uint64 `json:"shard_index"`
	ShardsTotal uint64 `json:"shards_total"`
}

// NeighborhoodConfig centers the neighborhood walk.
type NeighborhoodConfig struct {
	// BaseCNPJ is the identifier whose root anchors the window; masks
	// are tolerated.
	BaseCNPJ string `json:"base_cnpj"`

	// Spread widens the window to [root-spread, root+spread]; 0 uses
	// the strategy default.
	Spread uint64 `json:"spread" validate:"max=99999999"`
}

// CheckConfig drives one cnpj-check run.
type CheckConfig struct {
	// InputFile lists one identifier per line; masks are tolerated.
	InputFile string `json:"input_file"`

	// OutputDir receives the per-provider CSV reports.
	OutputDir string `json:"output_dir"`

	// Provider selects the lookup source: biz (HTML page scrape) or
	// api (open JSON API).
	Provider string `json:"provider" validate:"required,oneof=biz api"`

	// Workers sizes the lookup pool.
	Workers int `json:"workers" validate:"min=1,max=64"`

	// Timeout bounds one HTTP request, as a Go duration string.
	Timeout string `json:"timeout"`

	// MaxRetries caps attempts per identifier on 403/429 and transport
	// errors.
	MaxRetries int `json:"max_retries" validate:"min=0,max=10"`

	// RetryDelay is the base backoff between attempts.
	RetryDelay string `json:"retry_delay"`

	// RequestsPerSecond throttles the whole pool; 0 disables the limiter.
	RequestsPerSecond float64 `json:"requests_per_second" validate:"min=0"`

	// Proxies are rotated per request when set.
	Proxies []string `json:"proxies" validate:"dive,url"`
}

func (c *CheckConfig) validate() error {
	if err := validateStruct(c, "check"); err != nil {
		return err
	}

	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return apperrors.Wrapf(err, apperrors.InvalidInput, "check.timeout is not a valid duration: %q", c.Timeout)
	}
	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		return apperrors.Wrapf(err, apperrors.InvalidInput, "check.retry_delay is not a valid duration: %q", c.RetryDelay)
	}

	return nil
}

// TimeoutDuration returns the parsed request timeout. validate() has
// already guaranteed the value parses.
func (c *CheckConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// RetryDelayDuration returns the parsed base backoff.
func (c *CheckConfig) RetryDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
	return d
}

// StatusConfig enables the observational HTTP endpoint of cnpj-gen.
type StatusConfig struct {
	// ListenPort serves /healthz and /api/v1/progress when non-zero.
	ListenPort int `json:"listen_port" validate:"min=0,max=65535"`
}

func (c *StatusConfig) validate() error {
	return validateStruct(c, "status")
}

// Enabled reports whether the status server should run.
func (c *StatusConfig) Enabled() bool {
	return c.ListenPort > 0
}

// NotifyConfig enables the optional run-completion notification.
type NotifyConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

func (c *NotifyConfig) validate() error {
	if !c.Telegram.Enabled() {
		return nil
	}

	if err := validateStruct(&c.Telegram, "notify.telegram"); err != nil {
		return err
	}
	if c.Telegram.ChatID == 0 {
		return apperrors.New(apperrors.InvalidInput, "notify.telegram.chat_id is required when a bot token is set")
	}
	return nil
}

// TelegramConfig holds the bot credentials for completion messages.
type TelegramConfig struct {
	BotToken string `json:"bot_token" validate:"omitempty,telegram_bot_token"`
	ChatID   int64  `json:"chat_id"`
}

// Enabled reports whether a completion message should be sent.
func (c *TelegramConfig) Enabled() bool {
	return strings.TrimSpace(c.BotToken) != ""
}

// defaults returns the lowest-priority configuration layer.
func defaults() AppConfig {
	return AppConfig{
		Generate: GenerateConfig{
			Strategy: "random",
			Count:    1000,
			Output: OutputConfig{
				Prefix:        "cnpjs",
				ProgressEvery: 10_000,
			},
		},
		Check: CheckConfig{
			OutputDir:         "reports",
			Provider:          "biz",
			Workers:           4,
			Timeout:           "15s",
			MaxRetries:        3,
			RetryDelay:        "2s",
			RequestsPerSecond: 1,
		},
	}
}

// Load reads the default configuration file.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile builds an AppConfig from defaults, the given JSON file
// and the environment, then validates the result. Unknown keys in the
// file are an error so typos fail the run instead of silently falling
// back to defaults.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. Built-in defaults, lowest priority.
	if err := k.Load(structs.Provider(defaults(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "failed to load the built-in configuration defaults")
	}

	// 2. JSON configuration file.
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrapf(err, apperrors.NotFound, "configuration file not found: %q", filename)
		}
		return nil, apperrors.Wrapf(err, apperrors.InvalidInput, "failed to load the configuration file %q", filename)
	}

	// 3. Environment variables, highest priority. Double underscores
	// express nesting: CNPJ_GENERATE__COUNT -> generate.count.
	if err := k.Load(env.Provider("CNPJ_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "CNPJ_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "failed to load configuration from the environment")
	}

	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.InvalidInput, "failed to decode the configuration file %q", filename)
	}

	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.InvalidInput, "configuration file %q failed validation", filename)
	}

	return &appConfig, nil
}
