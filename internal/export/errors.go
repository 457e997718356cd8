package export

import "codeberg.org/mutker/mysqlstatus/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig   = errors.ErrorCode("export_invalid_config")
	ErrReadConfig      = errors.ErrorCode("export_read_config_failed")
	ErrReadMapping     = errors.ErrorCode("export_read_mapping_failed")
	ErrUnsupportedMode = errors.ErrorCode("export_unsupported_mode")

	// Remote store Errors
	ErrConnect     = errors.ErrorCode("export_connect_failed")
	ErrProbe       = errors.ErrorCode("export_probe_failed")
	ErrIndexExists = errors.ErrorCode("export_index_exists_failed")
	ErrCreateIndex = errors.ErrorCode("export_create_index_failed")
	ErrIndexDoc    = errors.ErrorCode("export_index_document_failed")
	ErrEncode      = errors.ErrorCode("export_encode_failed")
)
