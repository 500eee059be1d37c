package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bisync/internal/log"
)

const EnvPrefix = "BISYNC"

const (
	keyDryRun       = "dry-run"
	keyInteractive  = "interactive"
	keyLogLevel     = "loglvl"
	keyLogFile      = "log-file"
	keyHiddenPrefix = "hidden-prefix"
)

type Settings struct {
	LeftDir      string
	RightDir     string
	DryRun       bool
	Interactive  bool
	HiddenPrefix string
	LogLevel     log.Level
	LogFile      string
}

//RegisterFlags defines the command line flags of the synchronizer on the flag set.
func RegisterFlags(flagSet *pflag.FlagSet) {
	flagSet.BoolP(keyDryRun, "d", false,
		"if true, then nothing is changed: the differences and the needed disk space are only printed")
	flagSet.BoolP(keyInteractive, "i", false,
		"if true, then the user is asked before copying each entry (ignored in dry run)")
	flagSet.String(keyHiddenPrefix, ".",
		"entries whose names start with this prefix are neither compared nor copied (empty means none)")
	flagSet.String(keyLogLevel, string(log.InfoLevel),
		fmt.Sprintf("level of logging, permitted values are: %v, %v, %v, %v",
			log.DebugLevel, log.InfoLevel, log.WarnLevel, log.ErrorLevel),
	)
	flagSet.String(keyLogFile, "", "if set, then logs are written to this file, otherwise - to stderr")
}

//NewViper returns a viper instance resolving the flags of the flag set, overridable by BISYNC_* env vars.
func NewViper(flagSet *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	if err := v.BindPFlags(flagSet); err != nil {
		return nil, fmt.Errorf("cannot bind flags: %w", err)
	}
	return v, nil
}

//New builds the settings from the resolved configuration and the two positional directory arguments.
func New(v *viper.Viper, args []string) (*Settings, error) {
	if len(args) != 2 {
		return nil, errors.New("exactly two arguments (the directories for synchronization) must present")
	}

	stg := &Settings{
		DryRun:       v.GetBool(keyDryRun),
		Interactive:  v.GetBool(keyInteractive),
		HiddenPrefix: v.GetString(keyHiddenPrefix),
		LogFile:      v.GetString(keyLogFile),
	}

	var err error
	if stg.LeftDir, err = normalizeDirPath(args[0]); err != nil {
		return nil, err
	}
	if stg.RightDir, err = normalizeDirPath(args[1]); err != nil {
		return nil, err
	}
	if stg.LeftDir == stg.RightDir {
		return nil, errors.New("the directories for synchronization cannot be the same")
	}
	if isNested(stg.LeftDir, stg.RightDir) || isNested(stg.RightDir, stg.LeftDir) {
		return nil, fmt.Errorf("the directories for synchronization cannot be nested: %q and %q",
			stg.LeftDir, stg.RightDir)
	}

	level, ok := log.ParseLevel(v.GetString(keyLogLevel))
	if !ok {
		return nil, fmt.Errorf("logging level %q does not exist", v.GetString(keyLogLevel))
	}
	stg.LogLevel = level

	return stg, nil
}

//Validate checks that both directories exist right now.
func (stg *Settings) Validate() error {
	if err := validateDirectoryPath(stg.LeftDir); err != nil {
		return fmt.Errorf("the first (left) directory is invalid: %w", err)
	}
	if err := validateDirectoryPath(stg.RightDir); err != nil {
		return fmt.Errorf("the second (right) directory is invalid: %w", err)
	}
	return nil
}

func normalizeDirPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("the directory path cannot be empty")
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("path %q cannot be expanded: %w", path, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("path %q cannot be converted to absolute: %w", path, err)
	}
	return abs, nil
}

//isNested reports whether child lies strictly inside parent; both paths must be absolute and clean.
func isNested(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func validateDirectoryPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path %q is not a directory path", path)
	}
	return nil
}
