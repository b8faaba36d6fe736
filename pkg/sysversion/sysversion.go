package sysversion

import (
	"context"

	"github.com/fox-one/pkg/property"
)

const (
	SysVersionKey = "sysversion"

	// Current schema version of the persisted ledger, bumped with every migration that changes it
	Current int64 = 1
)

// ReadSysVersion zero when never written
func ReadSysVersion(ctx context.Context, property property.Store) (int64, error) {
	v, err := property.Get(ctx, SysVersionKey)
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

// WriteSysVersion record the schema version after a migration
func WriteSysVersion(ctx context.Context, property property.Store, version int64) error {
	return property.Save(ctx, SysVersionKey, version)
}
