// Package cli is the evidence vault command line.
//
// Each invocation runs one command against the local vault:
//
//	process [-date YYYY-MM-DD]   collect, filter and package one day
//	sync                         check connectivity and drain the sync queue
//	timeline [-page N] [-limit N] [-type T] [-status S] [-from D] [-to D]
//	status                       statistics, queue depth, failed tasks
//	retry <task-id>|all          revive failed sync tasks
//	review [dismiss <id>]        list or dismiss manual-review items
//	verify <evidence-id>         decrypt round trip against stored hashes
//	daemon                       watch connectivity and sync in the background
//	shell                        interactive prompt running the commands above
package cli
