package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/ragdash-backend/internal/observability"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/platform/objectstore"
)

var newObjectStore = objectstore.New

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode          StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingBucket        StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorMissingEmulatorHost  StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost  StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorMissingMinIOEndpoint StorageProviderBootstrapErrorCode = "missing_minio_endpoint"
	StorageProviderBootstrapErrorConnectFailed        StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func resolveObjectStore(ctx context.Context, log *logger.Logger, cfg Config) (objectstore.Store, error) {
	metrics := observability.Current()
	storeCfg, err := cfg.ObjectStoreConfig()
	if err != nil {
		classified := classifyStorageProviderBootstrapError(objectstore.Config{Mode: objectstore.Mode(cfg.Storage.Mode)}, err)
		if metrics != nil {
			metrics.ObserveObjectStorageProviderBootstrap(cfg.Storage.Mode, "error", string(storageProviderBootstrapErrorCode(classified)))
		}
		log.Error("Object storage provider selection failed", "mode", cfg.Storage.Mode, "error", classified)
		return nil, classified
	}
	if metrics != nil {
		metrics.SetObjectStorageModeActive(string(storeCfg.Mode))
	}

	log.Info(
		"Selecting object storage provider",
		"mode", storeCfg.Mode,
		"mode_source", storeCfg.ModeSource(),
		"bucket", storeCfg.Bucket,
		"emulator_host", storeCfg.EmulatorHost,
		"minio_endpoint", storeCfg.MinIO.Endpoint,
	)

	store, err := newObjectStore(ctx, log, storeCfg)
	if err != nil {
		classified := classifyStorageProviderBootstrapError(storeCfg, err)
		code := storageProviderBootstrapErrorCode(classified)
		if metrics != nil {
			metrics.ObserveObjectStorageProviderBootstrap(string(storeCfg.Mode), "error", string(code))
		}
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", storeCfg.Mode,
			"mode_source", storeCfg.ModeSource(),
			"emulator_host", storeCfg.EmulatorHost,
			"error_code", code,
			"error", classified,
		)
		return nil, classified
	}
	if metrics != nil {
		metrics.ObserveObjectStorageProviderBootstrap(string(storeCfg.Mode), "success", "none")
	}
	return store, nil
}

func classifyStorageProviderBootstrapError(storeCfg objectstore.Config, err error) error {
	code := StorageProviderBootstrapErrorConnectFailed
	var cfgErr *objectstore.ConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case objectstore.ConfigErrorInvalidMode:
			code = StorageProviderBootstrapErrorInvalidMode
		case objectstore.ConfigErrorMissingBucket:
			code = StorageProviderBootstrapErrorMissingBucket
		case objectstore.ConfigErrorMissingEmulatorHost:
			code = StorageProviderBootstrapErrorMissingEmulatorHost
		case objectstore.ConfigErrorInvalidEmulatorHost:
			code = StorageProviderBootstrapErrorInvalidEmulatorHost
		case objectstore.ConfigErrorMissingMinIOEndpoint:
			code = StorageProviderBootstrapErrorMissingMinIOEndpoint
		}
	}
	return &StorageProviderBootstrapError{
		Code:         code,
		Mode:         string(storeCfg.Mode),
		EmulatorHost: storeCfg.EmulatorHost,
		Cause:        err,
	}
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		if bootstrapErr.Code != "" {
			return bootstrapErr.Code
		}
	}
	return StorageProviderBootstrapErrorConnectFailed
}
