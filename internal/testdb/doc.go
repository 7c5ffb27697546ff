// Package testdb provides helpers for database integration tests.
//
// Tests open a connection with GetTestDBWithT, which skips the test when no
// database URL is configured, apply the embedded migrations once, and then run
// each case inside WithTx so every change is rolled back when the case ends:
//
//	func TestCredentialStore(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.SetupTestDatabaseSchema(t, db)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        // use tx as a store.DBTX
//	    })
//	}
package testdb
