package internal

import (
	"fmt"
	"time"
)

type Config struct {
	BadgerFilepath string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string        `env:"BLUGE_FILEPATH,required=true"`
	LogLevel       string        `env:"LOG_LEVEL,required=true"`
	InspectPort    int           `env:"INSPECT_PORT,default=8081"`
	MetricInterval time.Duration `env:"METRIC_INTERVAL,default=5s"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
