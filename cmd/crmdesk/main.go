// crmdesk CLI: inspect and maintain recorded render failures.
//
// Usage:
//
//	crmdesk <command> [flags]
//
// Commands:
//
//	failures list     List recorded render failures
//	failures stats    Per-view failure counts
//	failures report   Markdown report of failing views
//	failures prune    Delete old failures
//	version           Print version information
package main

import (
	"os"

	"github.com/Mr-Dark-debug/crmdesk/cmd/crmdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
