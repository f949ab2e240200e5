// launchfeed ingests the latest launch record from the upstream API, stores
// it keyed by launch id, rebuilds the aggregate view, and prints the fixed
// analytical reports.
//
// Usage:
//
//	launchfeed ingest              run the full pipeline once
//	launchfeed aggregate           rebuild the aggregate view only
//	launchfeed report              run the analytical reports only
package main

import (
	"os"
)

func main() {
	rootCmd.AddCommand(ingestCmd, aggregateCmd, reportCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
