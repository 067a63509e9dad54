package preflight

import (
	"mqreg/internal/config"
)

// DefaultProcDir holds the mqueue sysctls on Linux.
const DefaultProcDir = "/proc/sys/fs/mqueue"

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check for cfg. procDir locates the mqueue sysctls;
// empty uses DefaultProcDir.
func RunAll(cfg *config.Config, procDir string) []Result {
	if cfg == nil {
		return nil
	}
	if procDir == "" {
		procDir = DefaultProcDir
	}

	return []Result{
		CheckRegistryLocation("Registry directory", cfg.Registry.Path),
		CheckOptionalFile("Registry file", cfg.Registry.Path),
		CheckOptionalFile("Batch file", cfg.Queues.BatchFile),
		CheckQueueLimits("Kernel queue limits", procDir, cfg.Queues.DefaultMaxMessages, cfg.Queues.DefaultMessageSize),
	}
}

// Failed counts results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}
