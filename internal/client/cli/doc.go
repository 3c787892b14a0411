// Package cli implements the skillswap command-line client: one cobra
// subcommand per SkillSwap operation, configured from a TOML file and flags.
package cli
