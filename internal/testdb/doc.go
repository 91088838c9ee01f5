// Package testdb supports integration tests against a real PostgreSQL
// database.
//
// Tests call GetTestDBWithT, which skips the test unless SCRY_TEST_DB_URL or
// DATABASE_URL is set, applies the embedded migrations once per process and
// closes the connection on cleanup. WithTx runs the test body in a
// transaction that is always rolled back, so tests can run in parallel on
// the same schema:
//
//	func TestDeckStore(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        decks := postgres.NewPostgresDeckStore(tx, nil)
//	        ...
//	    })
//	}
package testdb
