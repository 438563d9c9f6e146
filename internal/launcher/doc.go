// Package launcher discovers the Proton environment of a target executable
// and relaunches Proton with it.
//
// Discovery state machine:
//
//	List candidates ──► Read attributes (concurrent, ordered)
//	                         │
//	          for each result, in enumeration order:
//	            read failed        → skip (warn)
//	            filter rejects     → skip
//	            cmdline mismatch   → skip
//	            no data path       → ErrNoDataPath (fatal)
//	            otherwise          → store profile, source=live
//	                         │
//	          no candidate matched:
//	            stored profile     → source=cache (no write)
//	            nothing stored     → ErrNoProfile (fatal)
//
// The first matching candidate wins; only one live game is expected.
package launcher
