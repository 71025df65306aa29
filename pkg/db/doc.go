// Package db connects to PostgreSQL and owns the message table schema.
//
// [Connect] opens a pgx pool with retries, [Migrate] applies the embedded goose
// migrations that create the i18n_messages table, and [SQLDB] bridges the pool
// to database/sql for the SQL bundle source:
//
//	pool, err := db.Connect(ctx, db.Config{URL: os.Getenv("DATABASE_URL")}, log)
//	if err != nil {
//		return err
//	}
//	sqlDB := db.SQLDB(pool)
//	if err := db.Migrate(ctx, sqlDB, "", log); err != nil {
//		return err
//	}
//	src, err := sqlsource.New(sqlDB)
package db
