package sampler

import (
	"context"
	"strconv"

	"codeberg.org/mutker/mysqlstatus/internal/database"
	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/model"
)

const bytesPerMB = 1024 * 1024

// LoadServerInfo reads the host name, version and buffer pool size.
func LoadServerInfo(ctx context.Context, db database.Querier) (model.ServerInfo, error) {
	rows, err := db.Query(ctx, variablesQuery)
	if err != nil {
		return model.ServerInfo{}, errors.New().Wrap(errors.ErrInitFailed, err)
	}

	vars := variablesToMap(rows)
	info := model.ServerInfo{
		Hostname: vars["hostname"],
		Version:  vars["version"],
	}
	if size, err := strconv.ParseInt(vars["innodb_buffer_pool_size"], 10, 64); err == nil {
		info.BufferPoolSizeMB = size / bytesPerMB
	}

	return info, nil
}
