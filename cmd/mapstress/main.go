// Command mapstress drives concurrent maps through staged workloads and
// reports timing and anomaly counts per iteration.
//
//	mapstress ins -n 1000000 -p 8 --table xsync
//	mapstress con --con 0.99 --table pb --format jsonl --out con.jsonl
//	mapstress del --ws 10000 --sqlite results.db
//	mapstress mix --wperc 0.2 --stream 2000000
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := new(flags)
	root := &cobra.Command{
		Use:          "mapstress",
		Short:        "Correctness and performance harness for concurrent maps",
		SilenceUsage: true,
	}
	f.register(root)
	root.AddCommand(
		newTestCmd("ins", "Bulk insert, unsuccessful and successful find", f),
		newTestCmd("con", "Contended insert-or-update, update and find on skewed keys", f),
		newTestCmd("del", "Sliding-window interleaved insert and delete", f),
		newTestCmd("mix", "Weighted stream of dependent finds, inserts and deletes", f),
		newTablesCmd(),
		newKeysCmd(f),
	)
	return root
}
