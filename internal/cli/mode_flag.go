package cli

import (
	"github.com/spf13/pflag"

	"github.com/temirov/ptree/internal/config"
	"github.com/temirov/ptree/internal/output"
)

const (
	gitignoreModeFlagTypeName = "mode"
	colorModeFlagTypeName     = "when"
)

type gitignoreModeFlagValue struct {
	target *config.GitignoreMode
}

func (value *gitignoreModeFlagValue) Set(input string) error {
	mode, parseError := config.ParseGitignoreMode(input)
	if parseError != nil {
		return parseError
	}
	*value.target = mode
	return nil
}

func (value *gitignoreModeFlagValue) String() string {
	if value == nil || value.target == nil {
		return config.GitignoreAuto.String()
	}
	return value.target.String()
}

func (value *gitignoreModeFlagValue) Type() string {
	return gitignoreModeFlagTypeName
}

type colorModeFlagValue struct {
	target *output.ColorMode
}

func (value *colorModeFlagValue) Set(input string) error {
	mode, parseError := output.ParseColorMode(input)
	if parseError != nil {
		return parseError
	}
	*value.target = mode
	return nil
}

func (value *colorModeFlagValue) String() string {
	if value == nil || value.target == nil {
		return output.ColorAuto.String()
	}
	return value.target.String()
}

func (value *colorModeFlagValue) Type() string {
	return colorModeFlagTypeName
}

func registerGitignoreModeFlag(flagSet *pflag.FlagSet, target *config.GitignoreMode, name string, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = config.GitignoreAuto
	flagSet.Var(&gitignoreModeFlagValue{target: target}, name, usage)
}

func registerColorModeFlag(flagSet *pflag.FlagSet, target *output.ColorMode, name string, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = output.ColorAuto
	flagSet.Var(&colorModeFlagValue{target: target}, name, usage)
}
