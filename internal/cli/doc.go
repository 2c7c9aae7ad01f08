// Package cli implements the lazyllms command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to a small workflow function that wires the internal
// packages together:
//
//   - Command definitions (cobra.Command instances in commands.go)
//   - Wiring (listCommand, tuiCommand, lifecycleCommand, initCommand)
//   - Implementation details (in other internal packages)
//
// # Command Structure
//
// The root command is "lazyllms" with subcommands:
//
//	lazyllms tui            - Interactive dashboard
//	lazyllms list           - One-shot status print
//	lazyllms start <model>  - Load a model
//	lazyllms stop <model>   - Unload a model
//	lazyllms init           - Create a config file
//	lazyllms version        - Version info
//	lazyllms completion     - Shell completions
//
// # Flag Handling
//
// Global flags (--config, --endpoint) are defined on the root command
// and available to all subcommands. Command-specific flags like
// --interval are defined on individual commands. loadConfig resolves
// the effective configuration from file, defaults, and flag overrides
// in that order.
package cli
