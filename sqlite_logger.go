package metawards

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteLogger writes a run's Population trajectory and per-ward
// snapshots into a single SQLite database, one table per record kind,
// scoped by instanceID so that a VariableSets sweep's repeats can share
// one output directory without colliding. Grounded on the teacher's
// SQLiteLogger (same file): the per-instance table-name suffix, the
// newTable "create table; delete from" idiom, and the prepare-once/
// exec-per-record/commit-at-end transaction shape are kept; the
// genotype/node/freq/status/transmission/mutation tables are replaced
// by Population and WardSnapshot tables (spec section 2.3).
type SQLiteLogger struct {
	path       string
	instanceID int
}

// NewSQLiteLogger builds a SQLiteLogger writing run.db into dir, with
// tables suffixed by instanceID.
func NewSQLiteLogger(dir string, instanceID int) *SQLiteLogger {
	return &SQLiteLogger{path: filepath.Join(dir, "run.db"), instanceID: instanceID}
}

// Init creates the Population and Ward tables, clearing any rows left
// over from a prior run that reused the same instanceID.
func (l *SQLiteLogger) Init() error {
	newTable := func(db *sql.DB, tableName, cols string) error {
		fullTableName := fmt.Sprintf("%s%03d", tableName, l.instanceID)
		_sqlStmt := `
	create table if not exists %s %s;
	delete from %s;
	`
		sqlStmt := fmt.Sprintf(_sqlStmt, fullTableName, cols, fullTableName)
		if _, err := db.Exec(sqlStmt); err != nil {
			return errorf(ErrMalformedFile, l.path, err.Error())
		}
		return nil
	}

	db, err := OpenSQLiteDB(l.path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := newTable(db, "Population",
		"(id integer not null primary key, day int, susceptibles int, latent int, infected int, removed int)"); err != nil {
		return err
	}
	if err := newTable(db, "Ward",
		"(id integer not null primary key, day int, ward int, susceptibles int, infected int)"); err != nil {
		return err
	}
	return nil
}

// WritePopulation drains c, inserting one Population row per record
// inside a single transaction.
func (l *SQLiteLogger) WritePopulation(c <-chan PopulationRecord) error {
	tableName := fmt.Sprintf("Population%03d", l.instanceID)
	stmtText := "insert into " + tableName + "(day, susceptibles, latent, infected, removed) values(?, ?, ?, ?, ?)"

	db, err := OpenSQLiteDB(l.path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return errorf(ErrMalformedFile, l.path, err.Error())
	}
	stmt, err := tx.Prepare(stmtText)
	if err != nil {
		return errorf(ErrMalformedFile, l.path, err.Error())
	}
	defer stmt.Close()

	for rec := range c {
		if _, err := stmt.Exec(rec.Day, rec.Susceptibles, rec.Latent, rec.Infected, rec.Removed); err != nil {
			tx.Rollback()
			return errorf(ErrMalformedFile, l.path, err.Error())
		}
	}
	return tx.Commit()
}

// WriteWardSnapshots drains c, inserting one Ward row per record inside
// a single transaction.
func (l *SQLiteLogger) WriteWardSnapshots(c <-chan WardSnapshot) error {
	tableName := fmt.Sprintf("Ward%03d", l.instanceID)
	stmtText := "insert into " + tableName + "(day, ward, susceptibles, infected) values(?, ?, ?, ?)"

	db, err := OpenSQLiteDB(l.path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return errorf(ErrMalformedFile, l.path, err.Error())
	}
	stmt, err := tx.Prepare(stmtText)
	if err != nil {
		return errorf(ErrMalformedFile, l.path, err.Error())
	}
	defer stmt.Close()

	for rec := range c {
		if _, err := stmt.Exec(rec.Day, rec.Ward, rec.Susceptibles, rec.Infected); err != nil {
			tx.Rollback()
			return errorf(ErrMalformedFile, l.path, err.Error())
		}
	}
	return tx.Commit()
}

// OpenSQLiteDB opens the sqlite3-driver database at path.
func OpenSQLiteDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errorf(ErrMalformedFile, path, err.Error())
	}
	return db, nil
}
