package objectstore

import (
	"fmt"
	"net/url"
	"strings"
)

type Mode string

const (
	ModeGCS         Mode = "gcs"
	ModeGCSEmulator Mode = "gcs_emulator"
	ModeMinIO       Mode = "minio"
)

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

type Config struct {
	Mode                  Mode
	Bucket                string
	EmulatorHost          string
	MinIO                 MinIOConfig
	CompatibilityFallback bool
}

func IsSupportedMode(mode Mode) bool {
	switch mode {
	case ModeGCS, ModeGCSEmulator, ModeMinIO:
		return true
	default:
		return false
	}
}

func (cfg Config) IsEmulatorMode() bool {
	return cfg.Mode == ModeGCSEmulator
}

func (cfg Config) ModeSource() string {
	if cfg.CompatibilityFallback {
		return "compatibility_fallback"
	}
	return "explicit_or_default"
}

// ResolveMode picks the storage mode from the raw OBJECT_STORAGE_MODE value.
// An empty value falls back to the emulator when an emulator host is set,
// to MinIO when an endpoint is set, and to GCS otherwise.
func ResolveMode(raw, emulatorHost, minioEndpoint string) (Mode, bool, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(raw)))
	switch mode {
	case "":
		switch {
		case strings.TrimSpace(emulatorHost) != "":
			return ModeGCSEmulator, true, nil
		case strings.TrimSpace(minioEndpoint) != "":
			return ModeMinIO, true, nil
		default:
			return ModeGCS, false, nil
		}
	case ModeGCS, ModeGCSEmulator, ModeMinIO:
		return mode, false, nil
	default:
		return "", false, &ConfigError{Code: ConfigErrorInvalidMode, Mode: raw}
	}
}

type ConfigErrorCode string

const (
	ConfigErrorInvalidMode          ConfigErrorCode = "invalid_mode"
	ConfigErrorMissingBucket        ConfigErrorCode = "missing_bucket"
	ConfigErrorMissingEmulatorHost  ConfigErrorCode = "missing_emulator_host"
	ConfigErrorInvalidEmulatorHost  ConfigErrorCode = "invalid_emulator_host"
	ConfigErrorMissingMinIOEndpoint ConfigErrorCode = "missing_minio_endpoint"
)

type ConfigError struct {
	Code         ConfigErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ConfigErrorInvalidMode:
		return fmt.Sprintf(
			"invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q, %q)",
			e.Mode, ModeGCS, ModeGCSEmulator, ModeMinIO,
		)
	case ConfigErrorMissingBucket:
		return "SOURCE_FILES_BUCKET must not be empty"
	case ConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ModeGCSEmulator)
	case ConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf(
			"invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443",
			e.EmulatorHost,
		)
	case ConfigErrorMissingMinIOEndpoint:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires MINIO_ENDPOINT to be set", ModeMinIO)
	default:
		return "invalid object storage config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func ValidateConfig(cfg Config) error {
	if !IsSupportedMode(cfg.Mode) {
		return &ConfigError{Code: ConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return &ConfigError{Code: ConfigErrorMissingBucket, Mode: string(cfg.Mode)}
	}
	switch cfg.Mode {
	case ModeGCSEmulator:
		if cfg.EmulatorHost == "" {
			return &ConfigError{Code: ConfigErrorMissingEmulatorHost, Mode: string(cfg.Mode)}
		}
		u, err := url.Parse(cfg.EmulatorHost)
		if err != nil || strings.TrimSpace(u.Scheme) == "" || strings.TrimSpace(u.Host) == "" {
			return &ConfigError{
				Code:         ConfigErrorInvalidEmulatorHost,
				Mode:         string(cfg.Mode),
				EmulatorHost: cfg.EmulatorHost,
				Cause:        err,
			}
		}
	case ModeMinIO:
		if strings.TrimSpace(cfg.MinIO.Endpoint) == "" {
			return &ConfigError{Code: ConfigErrorMissingMinIOEndpoint, Mode: string(cfg.Mode)}
		}
	}
	return nil
}
