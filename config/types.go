package config

type Config struct {
	Debug       bool        `mapstructure:"debug"`
	Server      Server      `mapstructure:"server"`
	ImageUpload ImageUpload `mapstructure:"imageupload"`
	Storage     Storage     `mapstructure:"storage"`
}

type Server struct {
	Address string       `mapstructure:"address" validate:"required,hostname|ip"`
	Port    int          `mapstructure:"port" validate:"min=0,max=65535"`
	Limits  ServerLimits `mapstructure:"limits"`
}

type ServerLimits struct {
	MaxPayloadSize  uint `mapstructure:"max_payload_size" validate:"required"`
	MaxFileSize     uint `mapstructure:"max_file_size" validate:"required"`
	MaxMultipartMem uint `mapstructure:"max_multipart_mem" validate:"required"`
}

// ImageUpload holds the uploader defaults. BasePath is prepended verbatim to
// every caller supplied path.
type ImageUpload struct {
	BasePath         string `mapstructure:"base_path" validate:"omitempty,localpath"`
	ImageThumbWidth  int    `mapstructure:"image_thumb_width" validate:"required,min=1"`
	ImageThumbHeight int    `mapstructure:"image_thumb_height" validate:"required,min=1"`
}

// Storage configures the default disk and, optionally, a separate public disk
// used for base64 uploads. Without a public disk the default disk is used.
type Storage struct {
	Default DiskConfig  `mapstructure:"default"`
	Public  *DiskConfig `mapstructure:"public"`
}

type DiskConfig struct {
	Strategy   string          `mapstructure:"strategy" validate:"required,oneof=filesystem s3 noop"`
	Filesystem *FilesystemDisk `mapstructure:"filesystem" validate:"required_if=Strategy filesystem"`
	S3         *S3Disk         `mapstructure:"s3" validate:"required_if=Strategy s3"`
}

type FilesystemDisk struct {
	Path      string `mapstructure:"path" validate:"required,abspath"`
	PublicUrl string `mapstructure:"public_url" validate:"required,url"`
}

type S3Disk struct {
	AccessKeyId    string `mapstructure:"access_key_id" validate:"required"`
	SecretKeyId    string `mapstructure:"secret_key_id" validate:"required"`
	Region         string `mapstructure:"region" validate:"required"`
	Bucket         string `mapstructure:"bucket" validate:"required"`
	Endpoint       string `mapstructure:"endpoint" validate:"omitempty,url"`
	PublicUrl      string `mapstructure:"public_url" validate:"omitempty,url"`
	Prefix         string `mapstructure:"prefix" validate:"omitempty,localpath"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
	DisableSSL     bool   `mapstructure:"disable_ssl"`
}
