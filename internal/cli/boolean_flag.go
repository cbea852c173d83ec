package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName     = "bool"
	toggleFlagImplicitText = "true"
	toggleFlagAccepted     = "true, false, yes, no, on, off, 1, 0"
	errorToggleValueFormat = "invalid value %q for --%s; accepted values: %s"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

func parseToggleLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return true, true
	}
	value, known := toggleLiterals[normalized]
	return value, known
}

// toggleFlag is a boolean flag that also accepts yes/no and on/off spellings.
// Changed reports whether the flag was given so it can override configuration.
type toggleFlag struct {
	name    string
	value   bool
	changed bool
}

func (flag *toggleFlag) Set(input string) error {
	parsed, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf(errorToggleValueFormat, input, flag.name, toggleFlagAccepted)
	}
	flag.value = parsed
	flag.changed = true
	return nil
}

func (flag *toggleFlag) String() string {
	if flag == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(flag.value)
}

func (flag *toggleFlag) Type() string {
	return toggleFlagTypeName
}

// resolve returns the flag value when it was given and fallback otherwise.
func (flag *toggleFlag) resolve(fallback bool) bool {
	if flag == nil || !flag.changed {
		return fallback
	}
	return flag.value
}

func registerToggleFlag(flagSet *pflag.FlagSet, name string, shorthand string, usage string) *toggleFlag {
	flag := &toggleFlag{name: name}
	flagSet.VarP(flag, name, shorthand, usage)
	if registered := flagSet.Lookup(name); registered != nil {
		registered.DefValue = strconv.FormatBool(false)
		registered.NoOptDefVal = toggleFlagImplicitText
	}
	return flag
}

// joinToggleValues rewrites "--flag value" into "--flag=value" for toggle flags
// followed by a boolean literal; pflag would otherwise treat the literal as a
// positional argument.
func joinToggleValues(command *cobra.Command, arguments []string) []string {
	toggleNames := map[string]struct{}{}
	collectToggleNames(command, toggleNames)
	if len(toggleNames) == 0 {
		return arguments
	}
	joined := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			joined = append(joined, arguments[index:]...)
			break
		}
		if strings.HasPrefix(argument, "--") && !strings.Contains(argument, "=") && index+1 < len(arguments) {
			name := strings.TrimPrefix(argument, "--")
			next := arguments[index+1]
			if _, isToggle := toggleNames[name]; isToggle && next != "" && !strings.HasPrefix(next, "-") {
				if _, known := toggleLiterals[strings.ToLower(strings.TrimSpace(next))]; known {
					joined = append(joined, argument+"="+next)
					index++
					continue
				}
			}
		}
		joined = append(joined, argument)
	}
	return joined
}

func collectToggleNames(command *cobra.Command, names map[string]struct{}) {
	visit := func(flag *pflag.Flag) {
		if flag.Value.Type() == toggleFlagTypeName {
			names[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectToggleNames(child, names)
	}
}
