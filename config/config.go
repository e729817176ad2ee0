package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

const DefaultName = "papertrade"

type ChangeHandler func() error

var (
	handlersMu     sync.Mutex
	changeHandlers = map[string]ChangeHandler{}
)

// OnChange registers a named handler that runs after every configuration
// (re)load. Registering the same name again replaces the handler.
func OnChange(name string, handler ChangeHandler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	log.WithField("handler", name).Debug("added change handler")
	if _, exists := changeHandlers[name]; exists {
		log.WithField("handler", name).Warn("config change handler reassigned")
	}
	changeHandlers[name] = handler
}

// changed runs every handler and returns the first failure.
func changed() error {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	var first error
	for name, handler := range changeHandlers {
		if err := handler(); err != nil {
			log.WithError(err).
				WithField("handler", name).
				Error("config handler failed")
			if first == nil {
				first = fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return first
}

var flagsOnce = sync.Once{}
var defLogConfig = LogConfig{
	Level:  "warn",
	JSON:   false,
	Text:   true,
	Output: os.Stderr,
}

func AddString(name, defVal, help string) {
	flag.String(name, defVal, help)
}

func AddFloat64(name string, defVal float64, help string) {
	flag.Float64(name, defVal, help)
}

func AddInt(name string, defVal int, help string) {
	flag.Int(name, defVal, help)
}

func AddBool(name string, defVal bool, help string) {
	flag.Bool(name, defVal, help)
}

func AddDuration(name string, defVal time.Duration, help string) {
	flag.Duration(name, defVal, help)
}

func addVars() {
	AddString("log-level", defLogConfig.Level, "show logs at or above this level; choices: trace, debug, info, warn, error, fatal, panic")
	AddBool("log-text", true, "log in text format")
	AddBool("log-json", false, "log in json format")
}

// dynConfigFileName builds a configuration file name from dynamic
// components, dropping the empty ones.
type dynConfigFileName []string

// String joins the non-empty components with '.'
func (c dynConfigFileName) String() string {
	var r dynConfigFileName
	for _, str := range c {
		if str != "" {
			r = append(r, str)
		}
	}
	return strings.Join(r, ".")
}

func parse(name string) error {
	var (
		configFileName  string
		configFilePath  string
		configEnvPrefix string
		env             string
	)

	if len(name) == 0 {
		name = DefaultName
	}

	env = os.Getenv(fmt.Sprintf("%s_ENV", strings.ToUpper(name)))
	if len(env) == 0 {
		env = os.Getenv("ENV")
	}

	defFilename := dynConfigFileName{"config", env}

	flagsOnce.Do(func() {
		flag.StringVar(&configEnvPrefix, "config-env-prefix", name, "env var name prefix")
		flag.StringVar(&configFileName, "config-name", defFilename.String(), "configuration file name")
		flag.StringVar(&configFilePath, "config-path", ".", "directory containing configuration file")

		addVars()
	})

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	flag.Parse()
	viper.SetEnvPrefix(configEnvPrefix)
	viper.AutomaticEnv()

	viper.SetConfigName(configFileName)

	viper.AddConfigPath(fmt.Sprintf("/etc/%s/", name))
	viper.AddConfigPath(fmt.Sprintf("$HOME/.%s", name))
	viper.AddConfigPath(configFilePath)

	fileLoaded := true
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.WithError(err).
				WithField("file", viper.ConfigFileUsed()).
				Error("couldn't read config file")
			return err
		}
		fileLoaded = false
		log.WithField("name", configFileName).Info("config file not found; using defaults")
	}

	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		return err
	}
	if err := setLogger(); err != nil {
		return err
	}

	OnChange("log", setLogger)

	// Options given on the command line are not affected by later edits of
	// the config file.
	if fileLoaded {
		log.WithField("file", viper.ConfigFileUsed()).Info("config file loaded")
		viper.WatchConfig()
		viper.OnConfigChange(func(e fsnotify.Event) {
			log.WithField("file", e.Name).Warn("config file changed")
			changed()
		})
	}

	return changed()
}

// Load reads flags, environment and the config file for the named
// application, then runs the registered change handlers.
func Load(name string) error {
	defLogConfig.Set()
	return parse(name)
}

// LoadDirect loads a configuration from YAML and triggers any subscribed
// callbacks. It does not merge the configuration with the environment or
// command line flags. This is mostly useful for testing.
func LoadDirect(name string, yaml []byte) error {
	defLogConfig.Set()
	viper.SetConfigType("yaml")
	if err := viper.ReadConfig(bytes.NewBuffer(yaml)); err != nil {
		log.WithError(err).WithField("name", name).Info("failed to load config")
		return err
	}
	if err := setLogger(); err != nil {
		return err
	}
	return changed()
}
