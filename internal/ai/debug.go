package ai

import (
	"os"
	"strings"
)

const debugEnvVar = "REPOLENS_AI_DEBUG"

// debugLevel is what REPOLENS_AI_DEBUG asks providers to log at Debug level:
// "all"/"1"/"true" logs request metadata and prompts, "prompts" logs prompts
// and replies only, anything else logs nothing.
type debugLevel struct {
	requests bool
	prompts  bool
}

func debugFromEnv() debugLevel {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(debugEnvVar))) {
	case "all", "1", "true":
		return debugLevel{requests: true, prompts: true}
	case "prompts":
		return debugLevel{prompts: true}
	default:
		return debugLevel{}
	}
}
