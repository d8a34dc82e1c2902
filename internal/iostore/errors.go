package iostore

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/rbmnet/pkg/errcode"
)

func StoreOpenError(path string, err error) error {
	msg := "Cannot open network store <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open store %s: %w", fn.Name(), path, err),
	}
}

func StoreWriteError(modelName string, err error) error {
	msg := "Cannot save network of model <em>%s</em>"
	vars := []any{modelName}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot save %s: %w", fn.Name(), modelName, err),
	}
}

func StoreReadError(err error) error {
	msg := "Cannot read saved networks"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreReadError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}

func DBConnectionError(host string, port int, database, user string, err error) error {
	msg := "Cannot connect to PostgreSQL <em>%s@%s:%d/%s</em>\n" +
		"Check that the server is running and the store.postgres settings " +
		"in config.yaml"
	vars := []any{user, host, port, database}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: failed to connect to %s:%d/%s: %w",
			fn.Name(), host, port, database, err),
	}
}

func DBNotConnectedError() error {
	msg := "Database is not connected"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: no connection pool", fn.Name()),
	}
}

func SchemaMigrateError(err error) error {
	msg := "Cannot create network tables in PostgreSQL"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
