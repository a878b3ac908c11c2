package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Resolve build features and statically link their libraries"
	MsgVersionShort    = "Print version information"
	MsgConfigureShort  = "Evaluate feature declarations and write the build cache"
	MsgRewriteShort    = "Rewrite cached link variables for static linking"
	MsgShowShort       = "Print the build cache"
	MsgCompletionShort = "Generate shell completion script"

	// Version output
	MsgVersionFormat = "featlink version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Error messages
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrSeedCache  = "failed to read seed cache: %w"
	MsgErrOverride   = "invalid override %q"
	MsgErrNoCommand  = "no command specified"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig       = "Configuration file (default ./featlink.toml)"
	MsgFlagFormat       = "Output format (auto, term, text, json)"
	MsgFlagDryRun       = "Preview the result without writing the cache"
	MsgFlagDeclarations = "Feature declaration file (.toml, .yaml or .hcl)"
	MsgFlagCache        = "Build cache path"
	MsgFlagSeed         = "Existing cache whose entries are copied first"
	MsgFlagEnable       = "Require a feature (repeatable)"
	MsgFlagDisable      = "Turn a feature off without probing (repeatable)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/configure-long.txt
	msgConfigureLongRaw string
	MsgConfigureLong    = strings.TrimSpace(msgConfigureLongRaw)

	//go:embed msgs/configure-example.txt
	msgConfigureExampleRaw string
	MsgConfigureExample    = strings.TrimRight(msgConfigureExampleRaw, "\n")

	//go:embed msgs/rewrite-long.txt
	msgRewriteLongRaw string
	MsgRewriteLong    = strings.TrimSpace(msgRewriteLongRaw)

	//go:embed msgs/rewrite-example.txt
	msgRewriteExampleRaw string
	MsgRewriteExample    = strings.TrimRight(msgRewriteExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/show-long.txt
	msgShowLongRaw string
	MsgShowLong    = strings.TrimSpace(msgShowLongRaw)
)
