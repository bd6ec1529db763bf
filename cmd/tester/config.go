package main

import "time"

// Defaults make the binary runnable with no environment at all; storage
// always lives in temp directories.
type Config struct {
	CensoredWords     []string      `env:"CENSORED_WORDS,default=badger"`
	CharReplacement   string        `env:"CHARACTER_REPLACEMENT,default=*"`
	AuthTokenSecret   string        `env:"AUTH_TOKEN_SECRET,default=tester-secret"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=1h"`
}
