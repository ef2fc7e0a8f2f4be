package config

type Log struct {
	// debug / info / warn / error ...
	Level string `mapstructure:"LEVEL" json:"level" yaml:"level"`
	// json（預設）或 console
	Format string `mapstructure:"FORMAT" json:"format" yaml:"format"`
}
