package main

import (
	"flag"
	"fmt"
	"strings"
	"time"
)

const (
	environmentVariablePort      = "PORT"
	environmentVariableWordsFile = "WORDS_FILE"
	environmentVariableGameLang  = "GAME_LANG"
	environmentVariableDebug     = "DEBUG_MESSAGES"
	environmentVariableOrigin    = "WS_ORIGIN"
)

const defaultAddr = ":4000"

// mainFlags are the configuration options which can be easily configured at
// startup for different environments.
type mainFlags struct {
	addr           string
	wordsFile      string
	lang           string
	origin         string
	turnSeconds    int
	maxPasses      int
	exchangeIsPass bool
	idleAfter      time.Duration
	sweepEvery     time.Duration
	turnTick       time.Duration
	wordTimeout    time.Duration
	debug          bool
}

// usage prints how to run the server to the flagset's output.
func usage(fs *flag.FlagSet) {
	envVars := []string{
		environmentVariablePort,
		environmentVariableWordsFile,
		environmentVariableGameLang,
		environmentVariableDebug,
		environmentVariableOrigin,
	}
	fmt.Fprintf(fs.Output(), "Runs the server\n")
	fmt.Fprintf(fs.Output(), "Reads environment variables when possible: [%s]\n", strings.Join(envVars, ","))
	fmt.Fprintf(fs.Output(), "Usage of %s:\n", fs.Name())
	fs.PrintDefaults()
}

// newFlagSet creates a flagSet that populates the specified mainFlags.
func (m *mainFlags) newFlagSet(osLookupEnvFunc func(string) (string, bool)) *flag.FlagSet {
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	fs.Usage = func() {
		usage(fs) // [lazy evaluation]
	}
	envValue := func(key, defaultValue string) string {
		if envValue, ok := osLookupEnvFunc(key); ok {
			return envValue
		}
		return defaultValue
	}
	envPresent := func(key string) bool {
		_, ok := osLookupEnvFunc(key)
		return ok
	}
	addr := defaultAddr
	if port, ok := osLookupEnvFunc(environmentVariablePort); ok {
		addr = ":" + port
	}
	fs.StringVar(&m.addr, "addr", addr, "The TCP address the server listens on.")
	fs.StringVar(&m.wordsFile, "words-file", envValue(environmentVariableWordsFile, ""), "The list of valid words that can be played.")
	fs.StringVar(&m.lang, "lang", envValue(environmentVariableGameLang, "EN"), "The tile distribution games are played with (EN or FR).")
	fs.StringVar(&m.origin, "origin", envValue(environmentVariableOrigin, ""), "The origin allowed to open websockets.  All origins are allowed when empty.")
	fs.IntVar(&m.turnSeconds, "turn-seconds", 120, "The number of seconds a player has per turn before a pass is forced.")
	fs.IntVar(&m.maxPasses, "max-passes", 6, "The number of consecutive passes that ends a stalled game.")
	fs.BoolVar(&m.exchangeIsPass, "exchange-counts-as-pass", true, "Counts tile exchanges toward the stalled-game pass limit.")
	fs.DurationVar(&m.idleAfter, "idle-after", 30*time.Minute, "How long an abandoned room may sit before it is deleted.")
	fs.DurationVar(&m.sweepEvery, "sweep-every", 5*time.Minute, "How often abandoned rooms are looked for.")
	fs.DurationVar(&m.turnTick, "turn-tick", time.Second, "How often turn deadlines are checked.")
	fs.DurationVar(&m.wordTimeout, "word-timeout", 2*time.Second, "How long a dictionary lookup may take before the word is treated as invalid.")
	fs.BoolVar(&m.debug, "debug", envPresent(environmentVariableDebug), "Logs message types in the console when messages are passed between components.")
	return fs
}

// newMainFlags creates a new, populated mainFlags structure.
// Fields are populated from command line arguments.
// If fields are not specified on the command line, environment variable
// values are used before defaulting to other defaults.
func newMainFlags(osArgs []string, osLookupEnvFunc func(string) (string, bool)) mainFlags {
	if len(osArgs) == 0 {
		osArgs = []string{""}
	}
	programArgs := osArgs[1:]
	var m mainFlags
	fs := m.newFlagSet(osLookupEnvFunc)
	fs.Parse(programArgs)
	return m
}
