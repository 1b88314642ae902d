package persistent

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"reflect"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	_ "github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

const testEnvDsnKey = "PGDB_DSN"

// PgOpen connects to postgres. Verbose logs every query through bundebug.
func PgOpen(ctx context.Context, pgDsn string, verbose bool) *bun.DB {
	sqldb, err := sql.Open("pg", pgDsn)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not open pg database.")
	}
	err = sqldb.PingContext(ctx)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not ping pg database.")
	}

	bdb := bun.NewDB(sqldb, pgdialect.New())
	for _, hook := range queryHooks(verbose) {
		bdb.AddQueryHook(hook)
	}
	return bdb
}

// Running integration tests requires real pg db instance, but we
// don't have enough time to start db for every test so testenv starts db once
// and then passes datasource to as many tests as we want.

func PgOpenTest(ctx context.Context) *bun.DB {
	return PgOpen(ctx, TestEnvDsn(), os.Getenv("DB_VERBOSE") == "true")
}

func queryHooks(verbose bool) []bun.QueryHook {
	if !verbose {
		return nil
	}
	return []bun.QueryHook{bundebug.NewQueryHook(bundebug.WithVerbose(true))}
}

func TestEnvDsn() string {
	return os.Getenv(testEnvDsnKey)
}

func SetTestEnvDsn(dsn string) {
	os.Setenv(testEnvDsnKey, dsn)
}

var models = []interface{}{
	(*User)(nil),
	(*Profile)(nil),
	(*Draft)(nil),
	(*ActivityLog)(nil),
}

// CreateSchema creates missing tables and indexes.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range models {
		modelType := reflect.TypeOf(model)
		logrus.WithField("model", modelType).Debugln("Creating table.")
		_, err := db.NewCreateTable().IfNotExists().Model(model).Exec(ctx)
		if err != nil {
			return fmt.Errorf("create table %s: %w", modelType, err)
		}
	}

	indexes := []struct {
		model  interface{}
		name   string
		column string
	}{
		{(*Profile)(nil), "profile_user_id_idx", "user_id"},
		{(*Draft)(nil), "draft_owner_id_idx", "owner_id"},
		{(*ActivityLog)(nil), "activity_log_user_id_idx", "user_id"},
	}
	for _, index := range indexes {
		_, err := db.NewCreateIndex().
			IfNotExists().
			Model(index.model).
			Index(index.name).
			Column(index.column).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create index %s: %w", index.name, err)
		}
	}
	return nil
}
