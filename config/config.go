package config

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DefaultThumbWidth  = 300
	DefaultThumbHeight = 300
)

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("abspath", ValidateAbsPath)
	validate.RegisterValidation("localpath", ValidateLocalpath)

	if err := validate.Struct(c); err != nil {
		return err
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.limits.max_payload_size", 1<<20)
	v.SetDefault("server.limits.max_file_size", 32<<20)
	v.SetDefault("server.limits.max_multipart_mem", 32<<20)
	v.SetDefault("imageupload.image_thumb_width", DefaultThumbWidth)
	v.SetDefault("imageupload.image_thumb_height", DefaultThumbHeight)
}

// LoadConfig reads a YAML file, applies IMAGEUPLOAD_* environment overrides
// (e.g. IMAGEUPLOAD_IMAGEUPLOAD_IMAGE_THUMB_WIDTH) and validates the result.
func LoadConfig(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("IMAGEUPLOAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("read in fail")
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Println("unmarshal fail")
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		log.Println("validate fail")
		return nil, err
	}

	return &cfg, nil
}
