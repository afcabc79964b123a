package cmd

import (
	"encoding/json"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/bowline/types"
)

// VersionResponse is the response for the version command.
type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// VersionCommand returns the version command. It reports the canonical
// project version and never touches the network or filesystem.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Action: versionAction(commit),
	}
}

func versionAction(commit string) cli.ActionFunc {
	return func(_ *cli.Context) error {
		resp := VersionResponse{
			Version: types.Version,
			Commit:  commit,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
}
