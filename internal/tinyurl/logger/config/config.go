package config

const DefaultLogLevel string = "info"

type Config struct {
	LogLevel string
}
