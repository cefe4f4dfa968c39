package main

type Config struct {
	BusBufferSize  int    `env:"BUS_BUFFER_SIZE,default=256"`
	LimitMessages  *int   `env:"LIMIT_MESSAGES"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`
	Host           string `env:"HOST,default=localhost"`
	Port           int    `env:"PORT,default=8080"`
	DebugPort      int    `env:"DEBUG_PORT"`
}
