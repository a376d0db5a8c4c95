package config

import (
	"fmt"
	"os"
	"time"
)

const (
	ArchiveNone  = "none"
	ArchiveS3    = "s3"
	ArchiveMinio = "minio"
)

// ArchiveConfig selects where processed uploads are copied, if anywhere.
// Retention of zero keeps archived uploads until their record is deleted.
type ArchiveConfig struct {
	Type      string        `yaml:"type"`
	Retention time.Duration `yaml:"retention"`
	S3        S3Config      `yaml:"s3"`
	Minio     MinioConfig   `yaml:"minio"`
}

type S3Config struct {
	BucketName string `yaml:"bucket"`
	Region     string `yaml:"region"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
}

type MinioConfig struct {
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Endpoint   string `yaml:"endpoint"`
	UseSSL     bool   `yaml:"use_ssl"`
	Region     string `yaml:"region"`
	BucketName string `yaml:"bucket"`
}

func (a ArchiveConfig) Validate() error {
	if a.Retention < 0 {
		return fmt.Errorf("config: archive retention must not be negative")
	}
	switch a.Type {
	case "", ArchiveNone:
		return nil
	case ArchiveS3:
		if a.S3.BucketName == "" || a.S3.Region == "" {
			return fmt.Errorf("config: s3 archive needs bucket and region")
		}
	case ArchiveMinio:
		if a.Minio.BucketName == "" || a.Minio.Endpoint == "" {
			return fmt.Errorf("config: minio archive needs bucket and endpoint")
		}
	default:
		return fmt.Errorf("config: unsupported archive type %q", a.Type)
	}
	return nil
}

func applyArchiveEnv(a *ArchiveConfig) {
	setString(&a.Type, "ARCHIVE_TYPE")
	setDuration(&a.Retention, "ARCHIVE_RETENTION")

	setString(&a.S3.BucketName, "AWS_S3_BUCKET_NAME")
	setString(&a.S3.Region, "AWS_REGION")
	setString(&a.S3.Endpoint, "AWS_ENDPOINT")
	setString(&a.S3.AccessKey, "AWS_ACCESS_KEY")
	setString(&a.S3.SecretKey, "AWS_SECRET_KEY")

	setString(&a.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&a.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&a.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&a.Minio.Region, "MINIO_REGION")
	setString(&a.Minio.BucketName, "MINIO_BUCKET_NAME")
	if os.Getenv("MINIO_USE_SSL") == "true" {
		a.Minio.UseSSL = true
	}
}
